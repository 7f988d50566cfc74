package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/summitledger/mmrange/mmr"
)

func TestMemStoreAppendAndHashAt(t *testing.T) {
	s := NewMemStore[[]byte]()
	h1 := mmr.HashBytes([]byte("one"))
	h2 := mmr.HashBytes([]byte("two"))

	require.NoError(t, s.Append([]byte("one"), []mmr.Hash{h1}))
	require.NoError(t, s.Append([]byte("two"), []mmr.Hash{h2}))

	got, err := s.HashAt(0)
	require.NoError(t, err)
	require.Equal(t, h1, got)

	got, err = s.HashAt(1)
	require.NoError(t, err)
	require.Equal(t, h2, got)

	require.Equal(t, uint64(2), s.Len())
}

func TestMemStoreHashAtOutOfRange(t *testing.T) {
	s := NewMemStore[[]byte]()
	_, err := s.HashAt(0)
	require.Error(t, err)
	var missing *mmr.MissingHashAtIndexError
	require.ErrorAs(t, err, &missing)
}

func TestMemStoreLeafAt(t *testing.T) {
	s := NewMemStore[[]byte]()
	require.NoError(t, s.Append([]byte("leaf0"), []mmr.Hash{mmr.HashBytes([]byte("leaf0"))}))

	leaf, ok := s.LeafAt(0)
	require.True(t, ok)
	require.Equal(t, []byte("leaf0"), leaf)

	_, ok = s.LeafAt(1)
	require.False(t, ok)
	require.Equal(t, uint64(1), s.LeafCount())
}

func TestMemStoreAsMMRBackend(t *testing.T) {
	s := NewMemStore[[]byte]()
	m := mmr.New[[]byte](0, s, mmr.BytesCodec{})
	for i := 0; i < 5; i++ {
		require.NoError(t, m.Append([]byte{byte(i)}))
	}
	require.NoError(t, m.Validate())
}
