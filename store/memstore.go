// Package store provides concrete mmr.Store realizations: an in-memory one
// for tests and small ranges, and a chunked Azure Blob Storage backed one
// for durable logs.
package store

import (
	"sync"

	"github.com/summitledger/mmrange/mmr"
)

// MemStore is an array-backed, in-process mmr.Store[T]. Leaves are kept
// alongside their hashes so a caller can retrieve original leaf data by
// leaf-sequence number (LeafAt).
type MemStore[T any] struct {
	mu     sync.RWMutex
	hashes []mmr.Hash
	leaves []T
}

// NewMemStore returns an empty in-memory store.
func NewMemStore[T any]() *MemStore[T] {
	return &MemStore[T]{}
}

// Append implements mmr.Store.
func (s *MemStore[T]) Append(elem T, hashes []mmr.Hash) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaves = append(s.leaves, elem)
	s.hashes = append(s.hashes, hashes...)
	return nil
}

// HashAt implements mmr.Store.
func (s *MemStore[T]) HashAt(idx uint64) (mmr.Hash, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx >= uint64(len(s.hashes)) {
		return mmr.Hash{}, &mmr.MissingHashAtIndexError{Idx: idx}
	}
	return s.hashes[idx], nil
}

// Len implements mmr.Store.
func (s *MemStore[T]) Len() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.hashes))
}

// LeafAt returns the leaf element appended at leaf-sequence number n
// (0-based, counting only leaves — not inner nodes).
func (s *MemStore[T]) LeafAt(n uint64) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var zero T
	if n >= uint64(len(s.leaves)) {
		return zero, false
	}
	return s.leaves[n], true
}

// LeafCount returns how many leaves (as opposed to total hashes, leaves +
// inner nodes) have been appended.
func (s *MemStore[T]) LeafCount() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.leaves))
}
