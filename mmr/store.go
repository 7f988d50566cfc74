package mmr

// Codec encodes a leaf element into the canonical bytes that get hashed to
// produce its leaf commitment. Callers supply one when constructing an MMR;
// BytesCodec is provided for the common case where T is already []byte.
type Codec[T any] interface {
	Encode(elem T) []byte
}

// BytesCodec is the identity Codec for T = []byte.
type BytesCodec struct{}

// Encode returns elem unchanged.
func (BytesCodec) Encode(elem []byte) []byte {
	return elem
}

// Store is the append-only hash log an MMR is built on. Position p in the
// range is stored at 0-based index p-1. A Store never needs to expose the
// leaf elements themselves — once hashed, an MMR only ever deals in Hash
// values — but Append is handed the raw element too, so a Store that wants
// to retain leaves (for later retrieval, replay, or chunked flushing) can.
type Store[T any] interface {
	// Append adds one new leaf's worth of nodes: the leaf element itself
	// plus every inner hash produced by bagging it into the range (in
	// post-order, ending with the new top-of-range peak chain). hashes
	// includes the leaf's own hash as hashes[0].
	Append(elem T, hashes []Hash) error

	// HashAt returns the hash stored at 0-based idx. It returns
	// *MissingHashAtIndexError if idx has never been written.
	HashAt(idx uint64) (Hash, error)

	// Len returns the number of hashes written so far (the Store's own
	// notion of size, which should track the MMR's size exactly).
	Len() uint64
}
