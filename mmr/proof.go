package mmr

import (
	"encoding/binary"
	"fmt"
	"io"
)

// MerkleProof is everything needed to verify that some element sits at a
// given leaf position in a range of size MMRSize: the list of hashes
// encountered walking from that leaf up to the range's root. It carries no
// position and no leaf data — both are supplied separately to Verify, and
// the full walk (which siblings are needed, which peaks bag together) is
// re-derived deterministically from (pos, MMRSize) by the position algebra.
type MerkleProof struct {
	MMRSize uint64
	Path    []Hash
}

// Verify checks that elem, encoded with codec, sits at 1-based position pos
// in a range whose root is root, using proof. It returns
// *ExpectingLeafNodeError if pos is not a leaf position in a range of size
// proof.MMRSize, and *InvalidRootHashError if the recomputed root does not
// match root.
func Verify[T any](root Hash, elem T, pos uint64, proof MerkleProof, codec Codec[T]) error {
	if !isLeaf(pos - 1) {
		return &ExpectingLeafNodeError{Pos: pos}
	}
	leafPreimage := HashBytes(codec.Encode(elem))
	leafHash := HashWithIndex(pos-1, leafPreimage)

	got, err := replayProof(pos, proof.MMRSize, leafHash, proof.Path)
	if err != nil {
		return err
	}
	if got != root {
		return &InvalidRootHashError{Got: got, Want: root}
	}
	return nil
}

// replayProof recomputes the root a proof claims to attest to, starting
// from a leaf's own hash and consuming path entries in the order Proof
// produced them: family-path siblings first, then (at most one) bagged
// "lower peaks" entry, then any peaks strictly to the left, nearest first.
func replayProof(pos, size uint64, leafHash Hash, path []Hash) (Hash, error) {
	fp := familyPath(pos, size)
	if len(path) < len(fp) {
		return Hash{}, fmt.Errorf("mmr: proof path too short: have %d entries, need at least %d", len(path), len(fp))
	}

	cur := leafHash
	curPos := pos
	for i, step := range fp {
		sibling := path[i]
		var combined Hash
		if isLeft(curPos) {
			combined = HashPair(cur, sibling)
		} else {
			combined = HashPair(sibling, cur)
		}
		cur = HashWithIndex(step.Parent-1, combined)
		curPos = step.Parent
	}

	positions := peaks(size)
	k := -1
	for i, p := range positions {
		if p == curPos {
			k = i
			break
		}
	}
	if k < 0 {
		return Hash{}, &MissingRootNodeError{}
	}

	rest := path[len(fp):]
	idx := 0
	if k+1 < len(positions) {
		if idx >= len(rest) {
			return Hash{}, fmt.Errorf("mmr: proof path too short: missing lower-peaks entry")
		}
		cur = HashWithIndex(size, HashPair(cur, rest[idx]))
		idx++
	}
	for j := k - 1; j >= 0; j-- {
		if idx >= len(rest) {
			return Hash{}, fmt.Errorf("mmr: proof path too short: missing left-peak entry at %d", j)
		}
		cur = HashWithIndex(size, HashPair(rest[idx], cur))
		idx++
	}
	return cur, nil
}

// Encode writes the proof's canonical wire form: MMRSize as a little-endian
// u64, the path length as a compact unsigned varint, then each hash as 32
// raw bytes. This is a deliberately minimal, non-self-describing layout —
// callers that need a self-describing envelope (versioning, extra fields)
// should wrap the result rather than extend it.
func (p MerkleProof) Encode(w io.Writer) error {
	var sizeBuf [8]byte
	binary.LittleEndian.PutUint64(sizeBuf[:], p.MMRSize)
	if _, err := w.Write(sizeBuf[:]); err != nil {
		return err
	}

	var lenBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenBuf[:], uint64(len(p.Path)))
	if _, err := w.Write(lenBuf[:n]); err != nil {
		return err
	}

	for _, h := range p.Path {
		if _, err := w.Write(h[:]); err != nil {
			return err
		}
	}
	return nil
}

// DecodeMerkleProof reads a proof written by MerkleProof.Encode.
func DecodeMerkleProof(r io.ByteReader) (MerkleProof, error) {
	sizeBuf := make([]byte, 8)
	for i := range sizeBuf {
		b, err := r.ReadByte()
		if err != nil {
			return MerkleProof{}, err
		}
		sizeBuf[i] = b
	}
	mmrSize := binary.LittleEndian.Uint64(sizeBuf)

	pathLen, err := binary.ReadUvarint(r)
	if err != nil {
		return MerkleProof{}, err
	}

	path := make([]Hash, pathLen)
	for i := range path {
		for j := 0; j < HashSize; j++ {
			b, err := r.ReadByte()
			if err != nil {
				return MerkleProof{}, err
			}
			path[i][j] = b
		}
	}
	return MerkleProof{MMRSize: mmrSize, Path: path}, nil
}
