// Command mmrctl is a thin front end over package mmr: build a range from
// an explicit list of leaves, print its root and peaks, produce and verify
// inclusion proofs, and seal a root with a local ECDSA key.
package main

import (
	"bufio"
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/summitledger/mmrange/config"
	"github.com/summitledger/mmrange/logging"
	"github.com/summitledger/mmrange/mmr"
	"github.com/summitledger/mmrange/seal"
	"github.com/summitledger/mmrange/store"
)

var leavesFlag = &cli.StringSliceFlag{
	Name:  "leaf",
	Usage: "leaf value (hex or raw string); repeat to build a multi-leaf range",
}

var configFlag = &cli.StringFlag{
	Name:  "config",
	Usage: "path to an mmrange TOML config file",
}

func main() {
	app := &cli.App{
		Name:  "mmrctl",
		Usage: "inspect and seal Merkle Mountain Range accumulators",
		Flags: []cli.Flag{configFlag},
		Commands: []*cli.Command{
			appendCommand,
			proofCommand,
			verifyCommand,
			rootCommand,
			sealCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "mmrctl:", err)
		os.Exit(1)
	}
}

// invocationLogger builds a logger tagged with a fresh correlation id for
// one CLI invocation, so its log lines can be picked out of a shared
// stream.
func invocationLogger(c *cli.Context) (*zap.Logger, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New("mmrctl", cfg.Development)
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String(logging.FieldCorrelationID, uuid.NewString())), nil
}

func loadConfig(c *cli.Context) (config.Config, error) {
	return config.Load(c.String(configFlag.Name))
}

// buildRange constructs an in-memory MMR from the --leaf flags given,
// appending them in the order supplied on the command line.
func buildRange(c *cli.Context) (*mmr.MMR[[]byte], error) {
	st := store.NewMemStore[[]byte]()
	m := mmr.New[[]byte](0, st, mmr.BytesCodec{})
	for _, raw := range c.StringSlice(leavesFlag.Name) {
		if err := m.Append(decodeLeaf(raw)); err != nil {
			return nil, fmt.Errorf("mmrctl: appending leaf %q: %w", raw, err)
		}
	}
	return m, nil
}

// decodeLeaf decodes a 0x-prefixed argument that is valid hex as hex; any
// other argument is taken as the raw bytes of the string itself.
func decodeLeaf(raw string) []byte {
	if strings.HasPrefix(raw, "0x") {
		if b, err := hex.DecodeString(strings.TrimPrefix(raw, "0x")); err == nil {
			return b
		}
	}
	return []byte(raw)
}

var appendCommand = &cli.Command{
	Name:      "append",
	Usage:     "append one more leaf to the --leaf range and print the new size",
	ArgsUsage: "<data>",
	Flags:     []cli.Flag{leavesFlag},
	Action: func(c *cli.Context) error {
		logger, err := invocationLogger(c)
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		m, err := buildRange(c)
		if err != nil {
			return err
		}
		if c.NArg() != 1 {
			return fmt.Errorf("mmrctl: append takes exactly one <data> argument")
		}
		if err := m.Append(decodeLeaf(c.Args().Get(0))); err != nil {
			return err
		}
		logger.Info("appended leaf", zap.Uint64(logging.FieldSize, m.Size()))
		fmt.Println(m.Size())
		return nil
	},
}

var proofCommand = &cli.Command{
	Name:      "proof",
	Usage:     "print a base64 CBOR-free inclusion proof for <pos>",
	ArgsUsage: "<pos>",
	Flags:     []cli.Flag{leavesFlag},
	Action: func(c *cli.Context) error {
		logger, err := invocationLogger(c)
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		m, err := buildRange(c)
		if err != nil {
			return err
		}
		pos, err := parseUint(c.Args().Get(0))
		if err != nil {
			return err
		}
		proof, err := m.Proof(pos)
		if err != nil {
			return err
		}
		var buf strings.Builder
		bw := bufio.NewWriter(&buf)
		if err := proof.Encode(bw); err != nil {
			return err
		}
		if err := bw.Flush(); err != nil {
			return err
		}
		logger.Info("built proof", zap.Uint64(logging.FieldPos, pos), zap.Uint64(logging.FieldSize, proof.MMRSize))
		fmt.Println(base64.StdEncoding.EncodeToString([]byte(buf.String())))
		return nil
	},
}

var verifyCommand = &cli.Command{
	Name:      "verify",
	Usage:     "verify a proof",
	ArgsUsage: "<pos> <data> <root-hex> <proof-b64>",
	Action: func(c *cli.Context) error {
		logger, err := invocationLogger(c)
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		if c.NArg() != 4 {
			return fmt.Errorf("mmrctl: verify takes exactly <pos> <data> <root-hex> <proof-b64>")
		}
		pos, err := parseUint(c.Args().Get(0))
		if err != nil {
			return err
		}
		leaf := decodeLeaf(c.Args().Get(1))
		root, err := mmr.FromHex(c.Args().Get(2))
		if err != nil {
			return err
		}
		raw, err := base64.StdEncoding.DecodeString(c.Args().Get(3))
		if err != nil {
			return fmt.Errorf("mmrctl: decoding proof: %w", err)
		}
		proof, err := mmr.DecodeMerkleProof(bufio.NewReader(strings.NewReader(string(raw))))
		if err != nil {
			return err
		}

		if err := mmr.Verify(root, leaf, pos, proof, mmr.BytesCodec{}); err != nil {
			logger.Warn("proof rejected", zap.Uint64(logging.FieldPos, pos), zap.Error(err))
			return err
		}
		logger.Info("proof verified", zap.Uint64(logging.FieldPos, pos))
		fmt.Println("ok")
		return nil
	},
}

var rootCommand = &cli.Command{
	Name:  "root",
	Usage: "print the current root and peak hashes",
	Flags: []cli.Flag{leavesFlag},
	Action: func(c *cli.Context) error {
		logger, err := invocationLogger(c)
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		m, err := buildRange(c)
		if err != nil {
			return err
		}
		root, err := m.Root()
		if err != nil {
			return err
		}
		peaks, err := m.Peaks()
		if err != nil {
			return err
		}
		logger.Info("computed root", zap.Uint64(logging.FieldSize, m.Size()), zap.String(logging.FieldRoot, root.Hex()))
		fmt.Println("root:", root.Hex())
		for i, p := range peaks {
			fmt.Printf("peak[%d]: %s\n", i, p.Hex())
		}
		return nil
	},
}

var sealCommand = &cli.Command{
	Name:  "seal",
	Usage: "seal the current root with a local ECDSA key, print the COSE_Sign1 token as base64",
	Flags: []cli.Flag{leavesFlag, configFlag,
		&cli.StringFlag{Name: "key", Usage: "path to a PEM-encoded EC private key, overrides config"},
		&cli.StringFlag{Name: "issuer", Usage: "seal issuer identity, overrides config"},
	},
	Action: func(c *cli.Context) error {
		logger, err := invocationLogger(c)
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		keyPath := c.String("key")
		if keyPath == "" {
			keyPath = cfg.SealKeyPath
		}
		issuer := c.String("issuer")
		if issuer == "" {
			issuer = cfg.SealIssuer
		}
		if keyPath == "" {
			return fmt.Errorf("mmrctl: seal requires --key or a configured [seal] key_path")
		}

		priv, err := loadECDSAKey(keyPath)
		if err != nil {
			return err
		}

		m, err := buildRange(c)
		if err != nil {
			return err
		}
		root, err := m.Root()
		if err != nil {
			return err
		}
		peaks, err := m.Peaks()
		if err != nil {
			return err
		}

		sealer, err := seal.NewSealer(issuer, "mmrctl-key", priv)
		if err != nil {
			return err
		}
		token, err := sealer.Seal(seal.State{
			MMRSize:   m.Size(),
			Root:      root,
			Peaks:     peaks,
			Timestamp: time.Now().Unix(),
		})
		if err != nil {
			return err
		}

		logger.Info("sealed root", zap.Uint64(logging.FieldSize, m.Size()), zap.String(logging.FieldRoot, root.Hex()))
		fmt.Println(base64.StdEncoding.EncodeToString(token))
		return nil
	},
}

func parseUint(s string) (uint64, error) {
	var v uint64
	_, err := fmt.Sscanf(s, "%d", &v)
	if err != nil {
		return 0, fmt.Errorf("mmrctl: invalid position %q: %w", s, err)
	}
	return v, nil
}

func loadECDSAKey(path string) (*ecdsa.PrivateKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mmrctl: reading key file: %w", err)
	}
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, fmt.Errorf("mmrctl: %s is not PEM-encoded", path)
	}
	key, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("mmrctl: parsing EC private key: %w", err)
	}
	return key, nil
}
