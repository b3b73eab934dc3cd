package ecdsa

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/bchscript/bchengine/pkg/crypto/hash"
	"github.com/bchscript/bchengine/pkg/crypto/keys"
	"github.com/stretchr/testify/require"
)

func randomKey(t *testing.T) []byte {
	t.Helper()
	for {
		var k [32]byte
		_, err := rand.Read(k[:])
		require.NoError(t, err)
		if keys.ValidatePrivateKey(k[:]) {
			return k[:]
		}
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	k := randomKey(t)
	pub, err := keys.DerivePublicKeyCompressed(k)
	require.NoError(t, err)

	digest := hash.SHA256([]byte("authenticate me"))
	sig, err := SignMessageHashDER(k, digest)
	require.NoError(t, err)

	require.True(t, VerifySignatureDERLowS(sig, pub, digest))
}

func TestLowSEnforcement(t *testing.T) {
	k := randomKey(t)
	pub, err := keys.DerivePublicKeyCompressed(k)
	require.NoError(t, err)

	digest := hash.SHA256([]byte("low-s check"))
	sig, err := SignMessageHashDER(k, digest)
	require.NoError(t, err)

	parsed, err := ParseDERStrict(sig)
	require.NoError(t, err)
	require.True(t, parsed.S.Cmp(halfOrder) <= 0)

	// Flip to high-S and confirm the verifier rejects it.
	flipped := &Signature{R: parsed.R, S: new(big.Int).Sub(curveOrder, parsed.S)}
	highSig := encodeDER(flipped)
	require.False(t, VerifySignatureDERLowS(highSig, pub, digest))

	// Normalizing the high-S form must reproduce the original bytes.
	renormalized, err := NormalizeSignatureDER(highSig)
	require.NoError(t, err)
	require.Equal(t, sig, renormalized)
}

func TestCompactSignatureLength(t *testing.T) {
	k := randomKey(t)
	digest := hash.SHA256([]byte("compact"))
	sig, err := SignMessageHashCompact(k, digest)
	require.NoError(t, err)
	require.Len(t, sig, 64)
}

func TestVerifyRejectsMalformedInputsWithoutPanicking(t *testing.T) {
	require.False(t, VerifySignatureDERLowS([]byte{1, 2, 3}, []byte{4, 5, 6}, make([]byte, 32)))
	require.False(t, VerifySignatureDERLowS(nil, nil, nil))
}
