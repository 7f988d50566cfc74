// Package seal produces and verifies COSE_Sign1 signed attestations over
// MMR roots, so a holder of a sealed state can prove "the root was X at
// size N" to a third party without that party trusting the log operator.
package seal

import (
	"crypto/ecdsa"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/veraison/go-cose"

	"github.com/summitledger/mmrange/mmr"
)

// ErrSealVerifyFailed is returned by Unseal when the COSE signature does
// not verify against the supplied public key.
var ErrSealVerifyFailed = errors.New("seal: signature verification failed")

// cborEncMode is deterministic: sorted map keys, canonical integer
// encoding, so two sealings of an identical State always produce
// byte-identical payloads.
var cborEncMode = func() cbor.EncMode {
	opts := cbor.CanonicalEncOptions()
	mode, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("seal: building canonical cbor encoder: %v", err))
	}
	return mode
}()

// State is the payload a Seal commits to: a root, its peaks, the size it
// was computed at, and when it was sealed.
type State struct {
	MMRSize   uint64     `cbor:"1,keyasint"`
	Root      mmr.Hash   `cbor:"2,keyasint"`
	Peaks     []mmr.Hash `cbor:"3,keyasint"`
	Timestamp int64      `cbor:"4,keyasint"`
}

// Sealer signs State values under a single issuer ECDSA key.
type Sealer struct {
	issuer     string
	keyID      string
	signer     cose.Signer
	privateKey *ecdsa.PrivateKey
}

// NewSealer builds a Sealer that signs with priv using its natural COSE
// algorithm (ES256 for a P-256 key, ES384/ES512 for larger curves).
func NewSealer(issuer, keyID string, priv *ecdsa.PrivateKey) (*Sealer, error) {
	alg, err := algorithmFor(priv)
	if err != nil {
		return nil, err
	}
	signer, err := cose.NewSigner(alg, priv)
	if err != nil {
		return nil, fmt.Errorf("seal: building signer: %w", err)
	}
	return &Sealer{issuer: issuer, keyID: keyID, signer: signer, privateKey: priv}, nil
}

func algorithmFor(priv *ecdsa.PrivateKey) (cose.Algorithm, error) {
	switch priv.Curve.Params().BitSize {
	case 256:
		return cose.AlgorithmES256, nil
	case 384:
		return cose.AlgorithmES384, nil
	case 521:
		return cose.AlgorithmES512, nil
	default:
		return 0, fmt.Errorf("seal: unsupported curve bit size %d", priv.Curve.Params().BitSize)
	}
}

// Seal CBOR-encodes state and wraps it in a signed COSE_Sign1 message,
// returning the message's own CBOR encoding (the "token").
func (s *Sealer) Seal(state State) ([]byte, error) {
	payload, err := cborEncMode.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("seal: encoding state: %w", err)
	}

	alg, err := algorithmFor(s.privateKey)
	if err != nil {
		return nil, err
	}

	msg := cose.NewSign1Message()
	msg.Headers.Protected.SetAlgorithm(alg)
	msg.Headers.Unprotected[cose.HeaderLabelKeyID] = []byte(s.keyID)
	msg.Payload = payload

	if err := msg.Sign(rand.Reader, []byte(s.issuer), s.signer); err != nil {
		return nil, fmt.Errorf("seal: signing: %w", err)
	}

	token, err := msg.MarshalCBOR()
	if err != nil {
		return nil, fmt.Errorf("seal: encoding token: %w", err)
	}
	return token, nil
}

// Unseal verifies a token against pub and decodes the enclosed State. It
// returns ErrSealVerifyFailed if the signature does not check out.
func Unseal(issuer string, token []byte, pub *ecdsa.PublicKey) (State, error) {
	var msg cose.Sign1Message
	if err := msg.UnmarshalCBOR(token); err != nil {
		return State{}, fmt.Errorf("seal: decoding token: %w", err)
	}

	alg, err := msg.Headers.Protected.Algorithm()
	if err != nil {
		return State{}, fmt.Errorf("seal: reading algorithm: %w", err)
	}
	verifier, err := cose.NewVerifier(alg, pub)
	if err != nil {
		return State{}, fmt.Errorf("seal: building verifier: %w", err)
	}

	if err := msg.Verify([]byte(issuer), verifier); err != nil {
		return State{}, ErrSealVerifyFailed
	}

	var state State
	if err := cbor.Unmarshal(msg.Payload, &state); err != nil {
		return State{}, fmt.Errorf("seal: decoding payload: %w", err)
	}
	return state, nil
}
