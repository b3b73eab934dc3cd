// Package ecdsa implements deterministic ECDSA signing and low-S
// verification over secp256k1, plus DER encode/decode/normalize.
package ecdsa

import (
	"crypto/sha256"
	"errors"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/nspcc-dev/rfc6979"
)

// Errors returned by the signing/parsing paths. Verify never returns
// an error — a malformed signature or public key simply fails to
// verify.
var (
	ErrInvalidHashLength    = errors.New("ecdsa: message hash must be 32 bytes")
	ErrMalformedDER         = errors.New("ecdsa: malformed DER signature")
	ErrMalformedPublicKey   = errors.New("ecdsa: malformed public key")
)

// Signature is a parsed (r, s) ECDSA signature pair.
type Signature struct {
	R, S *big.Int
}

var (
	curveOrder = secp256k1.S256().Params().N
	halfOrder  = new(big.Int).Rsh(curveOrder, 1)
)

// SignMessageHashDER signs a 32-byte message hash with private key k
// using RFC6979 deterministic nonce generation, normalizes the
// signature to low-S form, and returns its DER encoding.
func SignMessageHashDER(k, hash []byte) ([]byte, error) {
	sig, err := signRaw(k, hash)
	if err != nil {
		return nil, err
	}
	return encodeDER(sig), nil
}

// SignMessageHashCompact signs a 32-byte message hash and returns the
// raw 64-byte r||s low-S encoding (no DER framing, no recovery id).
func SignMessageHashCompact(k, hash []byte) ([]byte, error) {
	sig, err := signRaw(k, hash)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 64)
	rb := sig.R.Bytes()
	sb := sig.S.Bytes()
	copy(out[32-len(rb):32], rb)
	copy(out[64-len(sb):64], sb)
	return out, nil
}

func signRaw(k, hash []byte) (*Signature, error) {
	if len(hash) != 32 {
		return nil, ErrInvalidHashLength
	}
	d := new(big.Int).SetBytes(k)
	if d.Sign() <= 0 || d.Cmp(curveOrder) >= 0 {
		return nil, errors.New("ecdsa: private key out of range")
	}

	curve := secp256k1.S256()
	z := hashToInt(hash)

	// RFC6979 deterministic nonce, re-derived on collision the way the
	// RFC specifies (extraIterations increments the retry counter).
	for extra := 0; ; extra++ {
		kInt := rfc6979.GenerateSecret(d, hash, sha256.New, extra)
		if kInt.Sign() == 0 {
			continue
		}
		rx, _ := curve.ScalarBaseMult(kInt.Bytes())
		r := new(big.Int).Mod(rx, curveOrder)
		if r.Sign() == 0 {
			continue
		}

		kInv := new(big.Int).ModInverse(kInt, curveOrder)
		s := new(big.Int).Mul(r, d)
		s.Add(s, z)
		s.Mul(s, kInv)
		s.Mod(s, curveOrder)
		if s.Sign() == 0 {
			continue
		}

		// Low-S normalization (BIP62 / malleability fix).
		if s.Cmp(halfOrder) > 0 {
			s.Sub(curveOrder, s)
		}
		return &Signature{R: r, S: s}, nil
	}
}

// VerifySignatureDERLowS verifies a strict-DER, low-S ECDSA signature
// against pub and a 32-byte message hash. It returns false rather than
// erroring on any malformed input.
func VerifySignatureDERLowS(sig, pub, hash []byte) bool {
	if len(hash) != 32 {
		return false
	}
	parsed, err := ParseDERStrict(sig)
	if err != nil {
		return false
	}
	if parsed.S.Cmp(halfOrder) > 0 {
		return false
	}
	pk, err := secp256k1.ParsePubKey(pub)
	if err != nil {
		return false
	}
	return verify(parsed, pk, hash)
}

func verify(sig *Signature, pub *secp256k1.PublicKey, hash []byte) bool {
	curve := secp256k1.S256()
	if sig.R.Sign() <= 0 || sig.R.Cmp(curveOrder) >= 0 {
		return false
	}
	if sig.S.Sign() <= 0 || sig.S.Cmp(curveOrder) >= 0 {
		return false
	}

	z := hashToInt(hash)
	w := new(big.Int).ModInverse(sig.S, curveOrder)
	u1 := new(big.Int).Mul(z, w)
	u1.Mod(u1, curveOrder)
	u2 := new(big.Int).Mul(sig.R, w)
	u2.Mod(u2, curveOrder)

	x1, y1 := curve.ScalarBaseMult(u1.Bytes())
	px, py := pub.X(), pub.Y()
	x2, y2 := curve.ScalarMult(px, py, u2.Bytes())
	x, y := curve.Add(x1, y1, x2, y2)
	if x.Sign() == 0 && y.Sign() == 0 {
		return false
	}
	x.Mod(x, curveOrder)
	return x.Cmp(sig.R) == 0
}

// NormalizeSignatureDER re-encodes sig so that S is in low-S form,
// leaving an already-low-S signature byte-identical.
func NormalizeSignatureDER(sig []byte) ([]byte, error) {
	parsed, err := ParseDERLoose(sig)
	if err != nil {
		return nil, err
	}
	if parsed.S.Cmp(halfOrder) > 0 {
		parsed.S = new(big.Int).Sub(curveOrder, parsed.S)
	}
	return encodeDER(parsed), nil
}

// encodeDER renders sig as a minimal DER SEQUENCE of two INTEGERs.
func encodeDER(sig *Signature) []byte {
	rb := asn1Int(sig.R)
	sb := asn1Int(sig.S)
	body := append(append([]byte{}, rb...), sb...)
	out := append([]byte{0x30, byte(len(body))}, body...)
	return out
}

func asn1Int(v *big.Int) []byte {
	b := v.Bytes()
	if len(b) == 0 {
		b = []byte{0}
	}
	if b[0]&0x80 != 0 {
		b = append([]byte{0}, b...)
	}
	return append([]byte{0x02, byte(len(b))}, b...)
}

// ParseDERLoose parses a DER signature with BER-style tolerance
// (used only for normalization input, never for verify).
func ParseDERLoose(sig []byte) (*Signature, error) {
	return parseDER(sig, false)
}

// ParseDERStrict parses a DER signature enforcing strict rules: exact
// length markers, minimally-encoded positive r/s each at most 33
// bytes.
func ParseDERStrict(sig []byte) (*Signature, error) {
	return parseDER(sig, true)
}

func parseDER(sig []byte, strict bool) (*Signature, error) {
	if len(sig) < 8 || len(sig) > 72 {
		return nil, ErrMalformedDER
	}
	if sig[0] != 0x30 {
		return nil, ErrMalformedDER
	}
	totalLen := int(sig[1])
	if strict && totalLen != len(sig)-2 {
		return nil, ErrMalformedDER
	}
	offset := 2

	r, next, err := parseASN1Int(sig, offset, strict)
	if err != nil {
		return nil, err
	}
	offset = next

	s, next, err := parseASN1Int(sig, offset, strict)
	if err != nil {
		return nil, err
	}
	offset = next

	if strict && offset != len(sig) {
		return nil, ErrMalformedDER
	}
	if r.Sign() <= 0 || s.Sign() <= 0 {
		return nil, ErrMalformedDER
	}
	return &Signature{R: r, S: s}, nil
}

func parseASN1Int(b []byte, offset int, strict bool) (*big.Int, int, error) {
	if offset+2 > len(b) || b[offset] != 0x02 {
		return nil, 0, ErrMalformedDER
	}
	length := int(b[offset+1])
	start := offset + 2
	if start+length > len(b) {
		return nil, 0, ErrMalformedDER
	}
	val := b[start : start+length]
	if strict {
		if length == 0 {
			return nil, 0, ErrMalformedDER
		}
		if length > 33 {
			return nil, 0, ErrMalformedDER
		}
		if val[0]&0x80 != 0 {
			return nil, 0, ErrMalformedDER
		}
		if len(val) > 1 && val[0] == 0 && val[1]&0x80 == 0 {
			return nil, 0, ErrMalformedDER
		}
	}
	return new(big.Int).SetBytes(val), start + length, nil
}

func hashToInt(hash []byte) *big.Int {
	z := new(big.Int).SetBytes(hash)
	// secp256k1's order is 256 bits, same width as a SHA-256 digest,
	// so no truncation per FIPS 186's "leftmost bits" rule is needed.
	return z
}

