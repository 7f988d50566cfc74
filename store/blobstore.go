package store

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	"github.com/summitledger/mmrange/mmr"
)

// ChunkSize is the default number of hashes held in a single blob chunk.
const ChunkSize = 1024

// blobUploader is the subset of *azblob.Client a BlobStore depends on,
// narrowed to an interface so tests can substitute a fake without talking
// to a real storage account.
type blobUploader interface {
	UploadBuffer(ctx context.Context, containerName, blobName string, buffer []byte, o *azblob.UploadBufferOptions) (azblob.UploadBufferResponse, error)
	DownloadBuffer(ctx context.Context, containerName, blobName string, buffer []byte, o *azblob.DownloadBufferOptions) (int64, error)
}

// ErrChunkNotFound is returned when a chunk index has no backing blob and
// is not held in the active write buffer either.
var ErrChunkNotFound = fmt.Errorf("store: chunk not found")

// ErrBlobWriteFailed wraps any error the Azure SDK returns while flushing a
// completed chunk.
type ErrBlobWriteFailed struct {
	ChunkIndex uint64
	Cause      error
}

func (e *ErrBlobWriteFailed) Error() string {
	return fmt.Sprintf("store: flushing chunk %d: %v", e.ChunkIndex, e.Cause)
}

func (e *ErrBlobWriteFailed) Unwrap() error {
	return e.Cause
}

// BlobStore is an mmr.Store[T] that buffers the chunk currently being
// filled in memory and flushes each completed chunk to Azure Blob Storage
// as an immutable blob, the way the reference corpus chunks an MMR hash
// log into remote "massif" blobs while keeping the active one writable.
// Completed chunks never change after they are flushed. HashAt holds the
// store's mutex for the whole read, including any chunk download.
type BlobStore[T any] struct {
	mu        sync.Mutex
	client    blobUploader
	container string
	prefix    string
	chunkSize uint64

	buffer     *MemStore[T]
	bufferBase uint64 // hash index the active buffer's chunk starts at

	flushedLen uint64 // total hashes held in flushed chunks
}

// NewBlobStore returns a BlobStore that flushes completed chunks of
// chunkSize hashes to containerName, named "<prefix>/chunk-<index>.hashes".
func NewBlobStore[T any](client *azblob.Client, containerName, prefix string, chunkSize uint64) *BlobStore[T] {
	if chunkSize == 0 {
		chunkSize = ChunkSize
	}
	return &BlobStore[T]{
		client:    client,
		container: containerName,
		prefix:    prefix,
		chunkSize: chunkSize,
		buffer:    NewMemStore[T](),
	}
}

func (s *BlobStore[T]) chunkBlobName(chunkIndex uint64) string {
	return fmt.Sprintf("%s/chunk-%06d.hashes", s.prefix, chunkIndex)
}

// Append implements mmr.Store. It appends into the in-memory buffer for the
// chunk currently being filled, flushing to blob storage every time the
// buffer reaches chunkSize hashes.
func (s *BlobStore[T]) Append(elem T, hashes []mmr.Hash) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.buffer.Append(elem, hashes); err != nil {
		return err
	}

	for s.buffer.Len() >= s.chunkSize {
		if err := s.flushLocked(); err != nil {
			return err
		}
	}
	return nil
}

// flushLocked writes exactly one full chunk's worth of hashes from the
// buffer to blob storage, and re-bases the buffer onto whatever remains.
func (s *BlobStore[T]) flushLocked() error {
	chunkIndex := s.bufferBase / s.chunkSize
	buf := make([]byte, 0, s.chunkSize*mmr.HashSize)
	for i := uint64(0); i < s.chunkSize; i++ {
		h, err := s.buffer.HashAt(i)
		if err != nil {
			return err
		}
		buf = append(buf, h.Bytes()...)
	}

	ctx := context.Background()
	if _, err := s.client.UploadBuffer(ctx, s.container, s.chunkBlobName(chunkIndex), buf, nil); err != nil {
		return &ErrBlobWriteFailed{ChunkIndex: chunkIndex, Cause: err}
	}

	s.flushedLen += s.chunkSize
	s.bufferBase += s.chunkSize
	s.buffer = rebaseBuffer(s.buffer, s.chunkSize)
	return nil
}

// rebaseBuffer drops the first chunkSize hashes (now durably flushed) from
// buf, keeping any trailing partial chunk.
func rebaseBuffer[T any](buf *MemStore[T], chunkSize uint64) *MemStore[T] {
	fresh := NewMemStore[T]()
	for i := chunkSize; i < buf.Len(); i++ {
		h, _ := buf.HashAt(i)
		// Each retained hash is re-appended on its own with the zero
		// value of T as its element: the fresh buffer keeps the hashes
		// only, not the original leaf elements or leaf boundaries.
		var zero T
		_ = fresh.Append(zero, []mmr.Hash{h})
	}
	return fresh
}

// HashAt implements mmr.Store. It checks the active buffer first, then
// downloads the containing chunk on a miss.
func (s *BlobStore[T]) HashAt(idx uint64) (mmr.Hash, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx >= s.bufferBase {
		return s.buffer.HashAt(idx - s.bufferBase)
	}

	chunkIndex := idx / s.chunkSize
	offsetInChunk := idx % s.chunkSize

	buf := make([]byte, s.chunkSize*mmr.HashSize)
	ctx := context.Background()
	n, err := s.client.DownloadBuffer(ctx, s.container, s.chunkBlobName(chunkIndex), buf, nil)
	if err != nil {
		return mmr.Hash{}, fmt.Errorf("%w: %v", ErrChunkNotFound, err)
	}

	start := offsetInChunk * mmr.HashSize
	if start+mmr.HashSize > uint64(n) {
		return mmr.Hash{}, &mmr.MissingHashAtIndexError{Idx: idx}
	}
	return mmr.FromBytes(bytes.Clone(buf[start : start+mmr.HashSize])), nil
}

// Len implements mmr.Store.
func (s *BlobStore[T]) Len() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushedLen + s.buffer.Len()
}
