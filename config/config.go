// Package config loads the settings cmd/mmrctl and the blob-backed store
// need: which Store kind to use, where the blob container lives, and the
// identity a Sealer signs under. Settings come from an optional TOML file,
// then any functional Options layered on top — the same override-the-file
// pattern the reference corpus uses for its reader/writer options types.
package config

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

// StoreKind selects which mmr.Store realization the CLI builds.
type StoreKind string

const (
	StoreKindMemory StoreKind = "memory"
	StoreKindBlob   StoreKind = "blob"
)

// ErrInvalidStoreKind is returned when a config file or override names a
// StoreKind other than "memory" or "blob".
var ErrInvalidStoreKind = errors.New("config: store kind must be \"memory\" or \"blob\"")

// Config is the fully resolved configuration for a single mmrctl
// invocation.
type Config struct {
	StoreKind StoreKind `toml:"store_kind"`

	BlobContainerURL string `toml:"blob_container_url"`
	BlobPrefix        string `toml:"blob_prefix"`
	ChunkSize         uint64 `toml:"chunk_size"`

	SealIssuer  string `toml:"seal_issuer"`
	SealKeyPath string `toml:"seal_key_path"`

	Development bool `toml:"development"`
}

// fileConfig mirrors the on-disk TOML shape: two sections, [mmr] and
// [seal], matching §6's documented config file format.
type fileConfig struct {
	MMR struct {
		StoreKind         StoreKind `toml:"store_kind"`
		BlobContainerURL  string    `toml:"blob_container_url"`
		BlobPrefix        string    `toml:"blob_prefix"`
		ChunkSize         uint64    `toml:"chunk_size"`
		Development       bool      `toml:"development"`
	} `toml:"mmr"`
	Seal struct {
		Issuer  string `toml:"issuer"`
		KeyPath string `toml:"key_path"`
	} `toml:"seal"`
}

// Option mutates a Config after the file (if any) has been applied.
// Implementations ignore fields they don't care about, the same contract
// the reference corpus's generic Option type documents.
type Option func(*Config)

// WithStoreKind overrides which Store realization to build.
func WithStoreKind(kind StoreKind) Option {
	return func(c *Config) { c.StoreKind = kind }
}

// WithBlobContainer overrides the blob container URL and key prefix.
func WithBlobContainer(url, prefix string) Option {
	return func(c *Config) {
		c.BlobContainerURL = url
		c.BlobPrefix = prefix
	}
}

// WithChunkSize overrides the blob store's chunk size.
func WithChunkSize(size uint64) Option {
	return func(c *Config) { c.ChunkSize = size }
}

// WithSeal overrides the sealing issuer identity and private key path.
func WithSeal(issuer, keyPath string) Option {
	return func(c *Config) {
		c.SealIssuer = issuer
		c.SealKeyPath = keyPath
	}
}

// WithDevelopment toggles console-format logging.
func WithDevelopment(dev bool) Option {
	return func(c *Config) { c.Development = dev }
}

// defaults returns the Config used before any file or Option is applied.
func defaults() Config {
	return Config{
		StoreKind:   StoreKindMemory,
		BlobPrefix:  "mmrange",
		ChunkSize:   1024,
		SealIssuer:  "mmrange",
		Development: true,
	}
}

// Load reads path (if non-empty) as a TOML file, applies opts on top, and
// validates the result. path may be empty to skip the file entirely and
// configure purely through opts.
func Load(path string, opts ...Option) (Config, error) {
	cfg := defaults()

	if path != "" {
		var fc fileConfig
		if _, err := toml.DecodeFile(path, &fc); err != nil {
			return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if fc.MMR.StoreKind != "" {
			cfg.StoreKind = fc.MMR.StoreKind
		}
		if fc.MMR.BlobContainerURL != "" {
			cfg.BlobContainerURL = fc.MMR.BlobContainerURL
		}
		if fc.MMR.BlobPrefix != "" {
			cfg.BlobPrefix = fc.MMR.BlobPrefix
		}
		if fc.MMR.ChunkSize != 0 {
			cfg.ChunkSize = fc.MMR.ChunkSize
		}
		cfg.Development = fc.MMR.Development
		if fc.Seal.Issuer != "" {
			cfg.SealIssuer = fc.Seal.Issuer
		}
		if fc.Seal.KeyPath != "" {
			cfg.SealKeyPath = fc.Seal.KeyPath
		}
	}

	for _, o := range opts {
		o(&cfg)
	}

	if cfg.StoreKind != StoreKindMemory && cfg.StoreKind != StoreKindBlob {
		return Config{}, ErrInvalidStoreKind
	}
	return cfg, nil
}
