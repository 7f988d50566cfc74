package mmr

import (
	"errors"
	"fmt"
)

// Sentinel errors usable with errors.Is; every concrete error type below
// also implements Is(target) so a caller can match on the sentinel without
// caring about the carried evidence.
var (
	ErrExpectingLeafNode = errors.New("mmr: expecting leaf node")
	ErrInvalidNodeHeight = errors.New("mmr: invalid node height")
	ErrInvalidNodeHash   = errors.New("mmr: invalid node hash")
	ErrInvalidRootHash   = errors.New("mmr: invalid root hash")
	ErrMissingHashAtIndex = errors.New("mmr: missing hash at index")
	ErrMissingRootNode   = errors.New("mmr: missing root node")
	ErrInvalidHexString  = errors.New("mmr: invalid hex string")
)

// ExpectingLeafNodeError is returned when a proof is requested for a
// position that is not a leaf.
type ExpectingLeafNodeError struct {
	Pos uint64
}

func (e *ExpectingLeafNodeError) Error() string {
	return fmt.Sprintf("mmr: expecting leaf node at pos %d", e.Pos)
}

func (e *ExpectingLeafNodeError) Is(target error) bool {
	return target == ErrExpectingLeafNode
}

// InvalidNodeHeightError is returned by Append when the computed node
// height for the next position is not 0 — i.e. the caller tried to append
// at a position that isn't the next leaf slot.
type InvalidNodeHeightError struct {
	Height uint64
}

func (e *InvalidNodeHeightError) Error() string {
	return fmt.Sprintf("mmr: invalid node height %d, expected 0", e.Height)
}

func (e *InvalidNodeHeightError) Is(target error) bool {
	return target == ErrInvalidNodeHeight
}

// InvalidNodeHashError is returned by Validate when a stored inner node's
// hash does not match the hash recomputed from its children.
type InvalidNodeHashError struct {
	Idx      uint64
	Stored   Hash
	Expected Hash
}

func (e *InvalidNodeHashError) Error() string {
	return fmt.Sprintf("mmr: invalid node hash at idx %d: stored %s, expected %s", e.Idx, e.Stored, e.Expected)
}

func (e *InvalidNodeHashError) Is(target error) bool {
	return target == ErrInvalidNodeHash
}

// InvalidRootHashError is returned by proof verification when the recomputed
// root does not match the expected root.
type InvalidRootHashError struct {
	Got  Hash
	Want Hash
}

func (e *InvalidRootHashError) Error() string {
	return fmt.Sprintf("mmr: invalid root hash: got %s, want %s", e.Got, e.Want)
}

func (e *InvalidRootHashError) Is(target error) bool {
	return target == ErrInvalidRootHash
}

// MissingHashAtIndexError is returned by a Store when asked for a hash at an
// index it does not have.
type MissingHashAtIndexError struct {
	Idx uint64
}

func (e *MissingHashAtIndexError) Error() string {
	return fmt.Sprintf("mmr: missing hash at index %d", e.Idx)
}

func (e *MissingHashAtIndexError) Is(target error) bool {
	return target == ErrMissingHashAtIndex
}

// MissingRootNodeError is returned by Root when the peak list is empty for a
// non-empty range — this indicates a corrupt or inconsistent size value and
// should never happen in practice.
type MissingRootNodeError struct{}

func (e *MissingRootNodeError) Error() string {
	return "mmr: missing root node"
}

func (e *MissingRootNodeError) Is(target error) bool {
	return target == ErrMissingRootNode
}

// InvalidHexStringError is returned by FromHex when the input is not valid
// hex (odd length, or a character outside [0-9a-fA-F]).
type InvalidHexStringError struct {
	Input string
}

func (e *InvalidHexStringError) Error() string {
	return fmt.Sprintf("mmr: invalid hex string %q", e.Input)
}

func (e *InvalidHexStringError) Is(target error) bool {
	return target == ErrInvalidHexString
}
