package mmr

import (
	"strconv"
	"strings"
)

// debug utilities

func proofPathString(path []Hash, sep string) string {
	parts := make([]string, 0, len(path))
	for _, h := range path {
		parts = append(parts, h.Hex())
	}
	return strings.Join(parts, sep)
}

// String renders a proof as "size:<MMRSize>:[hash,hash,...]", full hex, for log lines
// and test failure output.
func (p MerkleProof) String() string {
	return "size:" + strconv.FormatUint(p.MMRSize, 10) + ":[" + proofPathString(p.Path, ",") + "]"
}
