// Package schnorr implements the Bitcoin Cash variant of Schnorr
// signatures over secp256k1: a 64-byte (R.x || s) signature bound to
// the full compressed public key (unlike BIP340's x-only scheme),
// with deterministic nonce generation.
package schnorr

import (
	"crypto/sha256"
	"errors"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/nspcc-dev/rfc6979"
)

// SignatureLength is the fixed size of a BCH Schnorr signature:
// 32-byte R.x followed by 32-byte s.
const SignatureLength = 64

var curveOrder = secp256k1.S256().Params().N

// ErrInvalidSignatureLength is returned when a byte string isn't
// exactly SignatureLength bytes.
var ErrInvalidSignatureLength = errors.New("schnorr: signature must be 64 bytes")

// SignMessageHashSchnorr signs a 32-byte message hash with private key
// k, returning the 64-byte (R.x || s) signature.
func SignMessageHashSchnorr(k, hash32 []byte) ([]byte, error) {
	if len(hash32) != 32 {
		return nil, errors.New("schnorr: message hash must be 32 bytes")
	}
	d := new(big.Int).SetBytes(k)
	if d.Sign() <= 0 || d.Cmp(curveOrder) >= 0 {
		return nil, errors.New("schnorr: private key out of range")
	}

	priv := secp256k1.PrivKeyFromBytes(k)
	pubCompressed := priv.PubKey().SerializeCompressed()

	curve := secp256k1.S256()
	for extra := 0; ; extra++ {
		kInt := rfc6979.GenerateSecret(d, hash32, sha256.New, extra)
		if kInt.Sign() == 0 {
			continue
		}
		rx, ry := curve.ScalarBaseMult(kInt.Bytes())
		if rx.Sign() == 0 {
			continue
		}
		// BCH Schnorr requires R's y coordinate to be even; negate the
		// nonce (and therefore R) when it isn't.
		if ry.Bit(0) == 1 {
			kInt = new(big.Int).Sub(curveOrder, kInt)
			rx, _ = curve.ScalarBaseMult(kInt.Bytes())
		}

		e := challenge(rx, pubCompressed, hash32)
		s := new(big.Int).Mul(e, d)
		s.Add(s, kInt)
		s.Mod(s, curveOrder)

		sig := make([]byte, SignatureLength)
		rxBytes := rx.Bytes()
		sBytes := s.Bytes()
		copy(sig[32-len(rxBytes):32], rxBytes)
		copy(sig[64-len(sBytes):64], sBytes)
		return sig, nil
	}
}

// VerifySignatureSchnorr verifies a 64-byte BCH Schnorr signature
// against pub and a 32-byte message hash. Returns false, never an
// error, for any malformed input.
func VerifySignatureSchnorr(sig, pub, hash32 []byte) bool {
	if len(sig) != SignatureLength || len(hash32) != 32 {
		return false
	}
	pk, err := secp256k1.ParsePubKey(pub)
	if err != nil {
		return false
	}

	rx := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:])
	if rx.Cmp(curveOrder) >= 0 || s.Cmp(curveOrder) >= 0 {
		return false
	}

	pubCompressed := pk.SerializeCompressed()
	e := challenge(rx, pubCompressed, hash32)

	curve := secp256k1.S256()
	sx, sy := curve.ScalarBaseMult(s.Bytes())
	ex, ey := curve.ScalarMult(pk.X(), pk.Y(), e.Bytes())
	ey = new(big.Int).Sub(curve.Params().P, ey) // negate e*P
	rPrimeX, rPrimeY := curve.Add(sx, sy, ex, ey)

	if rPrimeX.Sign() == 0 && rPrimeY.Sign() == 0 {
		return false
	}
	if rPrimeY.Bit(0) != 0 {
		return false
	}
	return rPrimeX.Cmp(rx) == 0
}

// challenge computes e = SHA256(R.x || compressedPubKey || msg) mod n,
// the Fiat-Shamir binding that ties the nonce commitment, the signer's
// full public key, and the message together.
func challenge(rx *big.Int, pubCompressed, msg []byte) *big.Int {
	h := sha256.New()
	rxBytes := make([]byte, 32)
	rxRaw := rx.Bytes()
	copy(rxBytes[32-len(rxRaw):], rxRaw)
	h.Write(rxBytes)
	h.Write(pubCompressed)
	h.Write(msg)
	e := new(big.Int).SetBytes(h.Sum(nil))
	return e.Mod(e, curveOrder)
}
