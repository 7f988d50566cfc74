package mmr

import (
	"encoding/binary"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// HashSize is the width, in bytes, of every node hash in the range.
const HashSize = 32

// dispChars is how many hex characters a Hash's String form shows. Matches
// the truncated debug rendering used throughout the reference tests, which
// pin exact string output for small seeded hashes.
const dispChars = 12

// Hash is a single 32-byte digest: a leaf commitment, an inner node, a peak
// or a root. The zero value is the all-zero hash, returned for an empty
// range's root.
type Hash [HashSize]byte

// ZeroHash is the root of an empty range.
var ZeroHash Hash

// Bytes returns the hash's raw bytes.
func (h Hash) Bytes() []byte {
	return h[:]
}

// MarshalBinary implements encoding.BinaryMarshaler, so encoders that
// recognize it (including fxamacker/cbor/v2) encode a Hash as a flat byte
// string rather than an array of 32 integers.
func (h Hash) MarshalBinary() ([]byte, error) {
	return append([]byte(nil), h[:]...), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (h *Hash) UnmarshalBinary(b []byte) error {
	if len(b) != HashSize {
		return &InvalidHexStringError{Input: hex.EncodeToString(b)}
	}
	copy(h[:], b)
	return nil
}

// Hex renders the full 64 lowercase hex characters, no 0x prefix.
func (h Hash) Hex() string {
	return hex.EncodeToString(h[:])
}

// String renders a truncated, human-scannable form: the first dispChars hex
// characters of the full digest. Not meant for round-tripping — use Hex for
// that.
func (h Hash) String() string {
	full := h.Hex()
	if len(full) <= dispChars {
		return full
	}
	return full[:dispChars]
}

// FromHex parses a 0x-prefixed, even-length hex string into a Hash. Input
// shorter than 32 bytes is right-zero-padded; input longer than 32 bytes is
// truncated to the first 32 bytes, mirroring the forgiving byte-vector
// constructor the rest of this package's literals are built from.
func FromHex(s string) (Hash, error) {
	trimmed := strings.TrimPrefix(s, "0x")
	raw, err := hex.DecodeString(trimmed)
	if err != nil {
		return Hash{}, &InvalidHexStringError{Input: s}
	}
	return FromBytes(raw), nil
}

// FromBytes builds a Hash from an arbitrary byte slice, right-zero-padding
// short input and truncating long input to HashSize bytes.
func FromBytes(b []byte) Hash {
	var h Hash
	n := copy(h[:], b)
	_ = n
	return h
}

// HashBytes is the leaf/preimage primitive: BLAKE2b-256 of raw bytes.
func HashBytes(b []byte) Hash {
	return blake2b.Sum256(b)
}

// HashPair combines two already-hashed nodes: H(a || b). Used to combine a
// left and right child into their parent's preimage, and to fold peaks
// together when bagging.
func HashPair(a, b Hash) Hash {
	buf := make([]byte, 0, 2*HashSize)
	buf = append(buf, a[:]...)
	buf = append(buf, b[:]...)
	return HashBytes(buf)
}

// HashWithIndex is the domain-separation primitive used for every committed
// node in the range: H(u64_le(idx) || x). For a leaf or inner node, idx is
// the node's own 0-based index (position - 1), so that identically-shaped
// subtrees appearing at different positions never hash to the same value;
// when peaks are bagged together, idx is the range's size instead.
func HashWithIndex(idx uint64, x Hash) Hash {
	buf := make([]byte, 8+HashSize)
	binary.LittleEndian.PutUint64(buf[:8], idx)
	copy(buf[8:], x[:])
	return HashBytes(buf)
}
