package mmr

import "fmt"

// MMR is a Merkle Mountain Range over elements of type T, backed by a
// Store[T]. The zero value is not usable; construct one with New.
type MMR[T any] struct {
	size  uint64
	store Store[T]
	codec Codec[T]
}

// New wraps an existing Store (size leaves/hashes already written) as an
// MMR. Pass size == 0 and an empty store to start a fresh range.
func New[T any](size uint64, store Store[T], codec Codec[T]) *MMR[T] {
	return &MMR[T]{size: size, store: store, codec: codec}
}

// Size returns the number of hashes (leaves + inner nodes) currently in the
// range.
func (m *MMR[T]) Size() uint64 {
	return m.size
}

// Hash returns the hash stored at 1-based position pos.
func (m *MMR[T]) Hash(pos uint64) (Hash, error) {
	return m.store.HashAt(pos - 1)
}

// Append adds one new leaf, cascading-merging it into any waiting peaks of
// the same height, right to left, until the next position up the chain
// would start a new peak of its own.
func (m *MMR[T]) Append(elem T) error {
	idx := m.size
	if height := nodeHeight(idx); height != 0 {
		return &InvalidNodeHeightError{Height: height}
	}
	leafPreimage := HashBytes(m.codec.Encode(elem))
	cur := HashWithIndex(idx, leafPreimage)
	hashes := []Hash{cur}

	curPos := idx + 1
	for !isLeft(curPos) {
		parent, sibling := family(curPos)
		siblingHash, err := m.Hash(sibling)
		if err != nil {
			return err
		}
		cur = HashWithIndex(parent-1, HashPair(siblingHash, cur))
		hashes = append(hashes, cur)
		curPos = parent
	}

	if err := m.store.Append(elem, hashes); err != nil {
		return err
	}
	m.size += uint64(len(hashes))
	return nil
}

// Validate recomputes every inner node's hash from its two children and
// compares it against what is stored, returning *InvalidNodeHashError on
// the first mismatch.
func (m *MMR[T]) Validate() error {
	for pos := uint64(1); pos <= m.size; pos++ {
		idx := pos - 1
		if isLeaf(idx) {
			continue
		}
		height := nodeHeight(idx)
		leftPos := pos - (uint64(1) << height)
		rightPos := pos - 1

		leftHash, err := m.Hash(leftPos)
		if err != nil {
			return err
		}
		rightHash, err := m.Hash(rightPos)
		if err != nil {
			return err
		}
		expected := HashWithIndex(idx, HashPair(leftHash, rightHash))

		stored, err := m.Hash(pos)
		if err != nil {
			return err
		}
		if stored != expected {
			return &InvalidNodeHashError{Idx: idx, Stored: stored, Expected: expected}
		}
	}
	return nil
}

// Peaks returns the hashes of every peak in the range, ordered the same as
// the underlying peaks position list (tallest subtree first).
func (m *MMR[T]) Peaks() ([]Hash, error) {
	return m.peakHashes(m.size)
}

func (m *MMR[T]) peakHashes(size uint64) ([]Hash, error) {
	positions := peaks(size)
	out := make([]Hash, len(positions))
	for i, p := range positions {
		h, err := m.Hash(p)
		if err != nil {
			return nil, err
		}
		out[i] = h
	}
	return out, nil
}

// Root folds every peak into a single hash, right to left, tagging each
// combination with the current size. An empty range's root is ZeroHash.
func (m *MMR[T]) Root() (Hash, error) {
	if m.size == 0 {
		return ZeroHash, nil
	}
	positions := peaks(m.size)
	if len(positions) == 0 {
		return Hash{}, &MissingRootNodeError{}
	}
	return m.bagRange(positions, m.size)
}

// bagRange folds the hashes at the given peak positions right to left,
// tagging every combination with tag. It is the shared core of Root and of
// the "lower peaks" half of a membership proof's peak path.
func (m *MMR[T]) bagRange(positions []uint64, tag uint64) (Hash, error) {
	running, err := m.Hash(positions[len(positions)-1])
	if err != nil {
		return Hash{}, err
	}
	for i := len(positions) - 2; i >= 0; i-- {
		peakHash, err := m.Hash(positions[i])
		if err != nil {
			return Hash{}, err
		}
		running = HashWithIndex(tag, HashPair(peakHash, running))
	}
	return running, nil
}

// Proof builds a membership proof for the leaf at 1-based position pos
// against the range's current size.
func (m *MMR[T]) Proof(pos uint64) (*MerkleProof, error) {
	return m.buildProof(pos, m.size)
}

// PartialProof builds a membership proof for the leaf at 1-based position
// pos as it would have been proved when the range's size was snapshotSize.
// snapshotSize must be an historical size the range actually passed
// through (pos <= snapshotSize <= current size); the underlying hashes are
// read from the live store, which never rewrites historical positions.
func (m *MMR[T]) PartialProof(pos, snapshotSize uint64) (*MerkleProof, error) {
	if snapshotSize > m.size {
		return nil, fmt.Errorf("mmr: snapshot size %d exceeds current size %d", snapshotSize, m.size)
	}
	if pos > snapshotSize {
		return nil, fmt.Errorf("mmr: pos %d exceeds snapshot size %d", pos, snapshotSize)
	}
	return m.buildProof(pos, snapshotSize)
}

// buildProof is shared by Proof and PartialProof: every position-algebra
// computation is taken against size, never against m.size directly, so a
// partial proof against an historical snapshot size is byte-identical to
// what Proof would have produced when the range genuinely had that size.
func (m *MMR[T]) buildProof(pos, size uint64) (*MerkleProof, error) {
	if !isLeaf(pos - 1) {
		return nil, &ExpectingLeafNodeError{Pos: pos}
	}

	fp := familyPath(pos, size)
	path := make([]Hash, 0, len(fp)+2)
	for _, step := range fp {
		h, err := m.Hash(step.Sibling)
		if err != nil {
			return nil, err
		}
		path = append(path, h)
	}

	containing := pos
	if len(fp) > 0 {
		containing = fp[len(fp)-1].Parent
	}

	positions := peaks(size)
	k := -1
	for i, p := range positions {
		if p == containing {
			k = i
			break
		}
	}
	if k < 0 {
		return nil, &MissingRootNodeError{}
	}

	if k+1 < len(positions) {
		lower, err := m.bagRange(positions[k+1:], size)
		if err != nil {
			return nil, err
		}
		path = append(path, lower)
	}
	for j := k - 1; j >= 0; j-- {
		h, err := m.Hash(positions[j])
		if err != nil {
			return nil, err
		}
		path = append(path, h)
	}

	return &MerkleProof{MMRSize: size, Path: path}, nil
}
