package schnorr

import (
	"crypto/rand"
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

	digest := hash.SHA256([]byte("schnorr authenticate"))
	sig, err := SignMessageHashSchnorr(k, digest)
	require.NoError(t, err)
	require.Len(t, sig, SignatureLength)

	require.True(t, VerifySignatureSchnorr(sig, pub, digest))
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	k := randomKey(t)
	other := randomKey(t)
	otherPub, err := keys.DerivePublicKeyCompressed(other)
	require.NoError(t, err)

	digest := hash.SHA256([]byte("schnorr"))
	sig, err := SignMessageHashSchnorr(k, digest)
	require.NoError(t, err)

	require.False(t, VerifySignatureSchnorr(sig, otherPub, digest))
}

func TestVerifyRejectsMalformedInputs(t *testing.T) {
	require.False(t, VerifySignatureSchnorr([]byte{1, 2, 3}, nil, make([]byte, 32)))
	require.False(t, VerifySignatureSchnorr(make([]byte, 64), []byte{9, 9, 9}, make([]byte, 32)))
}
