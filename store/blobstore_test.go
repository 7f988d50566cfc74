package store

import (
	"context"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/stretchr/testify/require"

	"github.com/summitledger/mmrange/mmr"
)

// fakeBlobUploader is an in-memory stand-in for *azblob.Client, exercising
// BlobStore's chunking logic without a real storage account.
type fakeBlobUploader struct {
	blobs map[string][]byte
}

func newFakeBlobUploader() *fakeBlobUploader {
	return &fakeBlobUploader{blobs: make(map[string][]byte)}
}

func (f *fakeBlobUploader) UploadBuffer(_ context.Context, _, blobName string, buffer []byte, _ *azblob.UploadBufferOptions) (azblob.UploadBufferResponse, error) {
	cp := make([]byte, len(buffer))
	copy(cp, buffer)
	f.blobs[blobName] = cp
	return azblob.UploadBufferResponse{}, nil
}

func (f *fakeBlobUploader) DownloadBuffer(_ context.Context, _, blobName string, buffer []byte, _ *azblob.DownloadBufferOptions) (int64, error) {
	data, ok := f.blobs[blobName]
	if !ok {
		return 0, ErrChunkNotFound
	}
	n := copy(buffer, data)
	return int64(n), nil
}

func TestBlobStoreFlushesCompletedChunks(t *testing.T) {
	fake := newFakeBlobUploader()
	s := &BlobStore[[]byte]{
		client:    fake,
		container: "logs",
		prefix:    "range-a",
		chunkSize: 4,
		buffer:    NewMemStore[[]byte](),
	}

	hashes := make([]mmr.Hash, 6)
	for i := range hashes {
		hashes[i] = mmr.HashBytes([]byte{byte(i)})
		require.NoError(t, s.Append([]byte{byte(i)}, []mmr.Hash{hashes[i]}))
	}

	require.Equal(t, uint64(6), s.Len())
	require.Len(t, fake.blobs, 1) // one full chunk of 4 flushed, 2 left buffered

	for i, want := range hashes {
		got, err := s.HashAt(uint64(i))
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestBlobStoreHashAtMissingChunk(t *testing.T) {
	fake := newFakeBlobUploader()
	s := &BlobStore[[]byte]{
		client:    fake,
		container: "logs",
		prefix:    "range-a",
		chunkSize: 4,
		buffer:    NewMemStore[[]byte](),
	}
	_, err := s.HashAt(100)
	require.Error(t, err)
}
