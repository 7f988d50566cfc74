// Package mmr implements a Merkle Mountain Range: an append-only,
// position-indexed cryptographic accumulator.
//
// # Position algebra
//
// All tree positions are 1-based and number nodes in depth-first post-order
// traversal of the forest of perfect binary trees that make up the range.
// Position p corresponds to 0-based Store index p-1. Given a size, the MMR
// is a deterministic forest: the set of peaks, their heights, and every
// node's family (parent, sibling) are pure functions of position and size.
//
// For example, an MMR of 11 leaves (size 19) looks like:
//
//	3                 15
//	              /       \
//	2         7               14
//	        /   \           /   \
//	1     3       6       10      13      18
//	     / \     / \     / \     / \     / \
//	0   1   2   4   5   8   9   11  12  16  17  19
//
// and has peaks at positions 15, 18, 19 (highest peak first).
//
// # Hashing convention
//
// Every node hash is domain-separated by its own post-order index:
// H_idx(i, x) = H(u64_le(i) || x). Leaves are committed as
// H_idx(idx, H(encode(elem))); inner nodes are committed as
// H_idx(idx, H(left, right)). This prevents identically-shaped subtrees at
// different positions from colliding, and it is what makes the root change
// on every append even when the new leaf duplicates existing data.
//
// # Sources
//
// The navigation primitives here (node height, peak bitmap, family path)
// follow the same binary-arithmetic approach used by the grin/mimblewimble
// MMR and by most MMR implementations descended from it: nothing about the
// tree is ever materialized, every operation is O(log size) bit arithmetic
// over the position and the current size.
package mmr
