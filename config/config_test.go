package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, StoreKindMemory, cfg.StoreKind)
	require.Equal(t, uint64(1024), cfg.ChunkSize)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mmrange.toml")
	contents := `
[mmr]
store_kind = "blob"
blob_container_url = "https://example.blob.core.windows.net/logs"
blob_prefix = "range-a"
chunk_size = 2048

[seal]
issuer = "example-issuer"
key_path = "/etc/mmrange/seal.pem"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, StoreKindBlob, cfg.StoreKind)
	require.Equal(t, "https://example.blob.core.windows.net/logs", cfg.BlobContainerURL)
	require.Equal(t, "range-a", cfg.BlobPrefix)
	require.Equal(t, uint64(2048), cfg.ChunkSize)
	require.Equal(t, "example-issuer", cfg.SealIssuer)
	require.Equal(t, "/etc/mmrange/seal.pem", cfg.SealKeyPath)
}

func TestOptionsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mmrange.toml")
	contents := `
[mmr]
store_kind = "memory"
chunk_size = 2048
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := Load(path, WithStoreKind(StoreKindBlob), WithChunkSize(512))
	require.NoError(t, err)
	require.Equal(t, StoreKindBlob, cfg.StoreKind)
	require.Equal(t, uint64(512), cfg.ChunkSize)
}

func TestLoadRejectsInvalidStoreKind(t *testing.T) {
	_, err := Load("", WithStoreKind("not-a-real-kind"))
	require.ErrorIs(t, err, ErrInvalidStoreKind)
}
