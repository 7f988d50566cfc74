package seal

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/summitledger/mmrange/mmr"
)

func generateKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return priv
}

func sampleState() State {
	return State{
		MMRSize: 19,
		Root:    mmr.HashBytes([]byte("root")),
		Peaks: []mmr.Hash{
			mmr.HashBytes([]byte("peak-1")),
			mmr.HashBytes([]byte("peak-2")),
		},
		Timestamp: 1_700_000_000,
	}
}

func TestSealUnsealRoundTrip(t *testing.T) {
	priv := generateKey(t)
	sealer, err := NewSealer("mmrange-test", "key-1", priv)
	require.NoError(t, err)

	state := sampleState()
	token, err := sealer.Seal(state)
	require.NoError(t, err)

	got, err := Unseal("mmrange-test", token, &priv.PublicKey)
	require.NoError(t, err)
	require.Equal(t, state, got)
}

func TestUnsealRejectsTamperedToken(t *testing.T) {
	priv := generateKey(t)
	sealer, err := NewSealer("mmrange-test", "key-1", priv)
	require.NoError(t, err)

	token, err := sealer.Seal(sampleState())
	require.NoError(t, err)

	tampered := make([]byte, len(token))
	copy(tampered, token)
	tampered[len(tampered)-1] ^= 0xff

	_, err = Unseal("mmrange-test", tampered, &priv.PublicKey)
	require.ErrorIs(t, err, ErrSealVerifyFailed)
}

func TestUnsealRejectsWrongKey(t *testing.T) {
	priv := generateKey(t)
	other := generateKey(t)
	sealer, err := NewSealer("mmrange-test", "key-1", priv)
	require.NoError(t, err)

	token, err := sealer.Seal(sampleState())
	require.NoError(t, err)

	_, err = Unseal("mmrange-test", token, &other.PublicKey)
	require.ErrorIs(t, err, ErrSealVerifyFailed)
}
