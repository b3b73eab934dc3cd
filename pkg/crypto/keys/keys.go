// Package keys implements the secp256k1 key-material operations the
// engine's crypto surface needs: private-key validation, public-key
// derivation, and the additive/multiplicative tweak operations used by
// some higher-level signing schemes built atop this engine.
package keys

import (
	"errors"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/holiman/uint256"
)

// Errors returned by this package. Verify-style functions never
// return these; they're reserved for construction/derivation paths
// where a caller can react to a malformed key.
var (
	ErrPrivateKeyRange  = errors.New("keys: private key out of range [1, n)")
	ErrPublicKeyEncoding = errors.New("keys: malformed public key encoding")
)

// curveOrder is n, the order of the secp256k1 base point, per SEC2.
var curveOrder = mustBigFromHex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141")

func mustBigFromHex(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("keys: invalid hex constant")
	}
	return n
}

// ValidatePrivateKey reports whether k, interpreted as a 32-byte
// big-endian integer, lies in [1, n).
func ValidatePrivateKey(k []byte) bool {
	if len(k) != 32 {
		return false
	}
	v := new(big.Int).SetBytes(k)
	return v.Sign() > 0 && v.Cmp(curveOrder) < 0
}

// DerivePublicKeyCompressed returns the 33-byte compressed public key
// for private key k.
func DerivePublicKeyCompressed(k []byte) ([]byte, error) {
	if !ValidatePrivateKey(k) {
		return nil, ErrPrivateKeyRange
	}
	priv := secp256k1.PrivKeyFromBytes(k)
	return priv.PubKey().SerializeCompressed(), nil
}

// DerivePublicKeyUncompressed returns the 65-byte uncompressed public
// key for private key k.
func DerivePublicKeyUncompressed(k []byte) ([]byte, error) {
	if !ValidatePrivateKey(k) {
		return nil, ErrPrivateKeyRange
	}
	priv := secp256k1.PrivKeyFromBytes(k)
	return priv.PubKey().SerializeUncompressed(), nil
}

// IsValidPublicKeyEncoding reports whether pub is a well-formed
// compressed (33-byte, 0x02/0x03 prefix) or uncompressed (65-byte,
// 0x04 prefix) public key encoding — the check OP_CHECKSIG and
// OP_CHECKMULTISIG run before ever touching the curve.
func IsValidPublicKeyEncoding(pub []byte) bool {
	switch {
	case len(pub) == 33 && (pub[0] == 0x02 || pub[0] == 0x03):
		return true
	case len(pub) == 65 && pub[0] == 0x04:
		return true
	default:
		return false
	}
}

// ParsePublicKey parses a compressed or uncompressed public key,
// validating that it actually lies on the curve (unlike
// IsValidPublicKeyEncoding, which only checks the byte shape).
func ParsePublicKey(pub []byte) (*secp256k1.PublicKey, error) {
	if !IsValidPublicKeyEncoding(pub) {
		return nil, ErrPublicKeyEncoding
	}
	p, err := secp256k1.ParsePubKey(pub)
	if err != nil {
		return nil, ErrPublicKeyEncoding
	}
	return p, nil
}

// scalarModN reduces a 32-byte big-endian tweak value mod n using a
// fixed-width uint256 accumulator rather than math/big, avoiding an
// allocation on what can be a hot path (repeated key derivation in a
// signing service).
func scalarModN(b []byte) *uint256.Int {
	var padded [32]byte
	copy(padded[32-len(b):], b)
	v := new(uint256.Int).SetBytes(padded[:])
	n, _ := uint256.FromBig(curveOrder)
	if v.Cmp(n) >= 0 {
		v.Mod(v, n)
	}
	return v
}

// AddTweakPrivateKey returns (k + t) mod n as a 32-byte big-endian
// private key.
func AddTweakPrivateKey(k, t []byte) ([]byte, error) {
	if !ValidatePrivateKey(k) {
		return nil, ErrPrivateKeyRange
	}
	kv := scalarModN(k)
	tv := scalarModN(t)
	n, _ := uint256.FromBig(curveOrder)

	sum := new(uint256.Int).AddMod(kv, tv, n)
	out := sum.Bytes32()
	if sum.IsZero() {
		return nil, ErrPrivateKeyRange
	}
	return out[:], nil
}

// AddTweakPublicKeyCompressed returns the compressed encoding of
// P + t*G for public key P and tweak scalar t.
func AddTweakPublicKeyCompressed(pub, t []byte) ([]byte, error) {
	p, err := ParsePublicKey(pub)
	if err != nil {
		return nil, err
	}

	var tScalar secp256k1.ModNScalar
	tScalar.SetByteSlice(t)

	var tweakPoint, pubPoint, sum secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&tScalar, &tweakPoint)
	p.AsJacobian(&pubPoint)
	secp256k1.AddNonConst(&pubPoint, &tweakPoint, &sum)
	sum.ToAffine()

	result := secp256k1.NewPublicKey(&sum.X, &sum.Y)
	return result.SerializeCompressed(), nil
}

// MultiplyTweakPrivateKey returns (k * t) mod n as a 32-byte big-endian
// private key.
func MultiplyTweakPrivateKey(k, t []byte) ([]byte, error) {
	if !ValidatePrivateKey(k) {
		return nil, ErrPrivateKeyRange
	}
	kv := scalarModN(k)
	tv := scalarModN(t)
	n, _ := uint256.FromBig(curveOrder)

	prod := new(uint256.Int).MulMod(kv, tv, n)
	if prod.IsZero() {
		return nil, ErrPrivateKeyRange
	}
	out := prod.Bytes32()
	return out[:], nil
}

// MultiplyTweakPublicKeyCompressed returns the compressed encoding of
// t*P for public key P and tweak scalar t.
func MultiplyTweakPublicKeyCompressed(pub, t []byte) ([]byte, error) {
	p, err := ParsePublicKey(pub)
	if err != nil {
		return nil, err
	}

	var tScalar secp256k1.ModNScalar
	tScalar.SetByteSlice(t)

	var pubPoint, result secp256k1.JacobianPoint
	p.AsJacobian(&pubPoint)
	secp256k1.ScalarMultNonConst(&tScalar, &pubPoint, &result)
	result.ToAffine()

	out := secp256k1.NewPublicKey(&result.X, &result.Y)
	return out.SerializeCompressed(), nil
}

// CompressPublicKey re-encodes an uncompressed public key in
// compressed form (or returns pub unchanged if already compressed).
func CompressPublicKey(pub []byte) ([]byte, error) {
	p, err := ParsePublicKey(pub)
	if err != nil {
		return nil, err
	}
	return p.SerializeCompressed(), nil
}

// DecompressPublicKey re-encodes a compressed public key in
// uncompressed form (or returns pub unchanged if already uncompressed).
func DecompressPublicKey(pub []byte) ([]byte, error) {
	p, err := ParsePublicKey(pub)
	if err != nil {
		return nil, err
	}
	return p.SerializeUncompressed(), nil
}
