// Package sigencoding validates the shapes of the byte strings the BCH
// VM treats as signatures and sighash-type bytes, independent of
// whether the signature actually verifies.
package sigencoding

import (
	"github.com/bchscript/bchengine/pkg/crypto/ecdsa"
	"github.com/bchscript/bchengine/pkg/crypto/keys"
	"github.com/bchscript/bchengine/pkg/crypto/schnorr"
)

// Sighash type bits, lsb = 0.
const (
	SighashAll          byte = 0x01
	SighashNone         byte = 0x02
	SighashSingle       byte = 0x03
	SighashForkID       byte = 0x40
	SighashAnyOneCanPay byte = 0x80

	sighashBaseTypeMask = 0x1f
	sighashKnownBits    = SighashAll | SighashNone | SighashSingle | SighashForkID | SighashAnyOneCanPay
)

// IsValidSighashType reports whether t has FORKID set, a recognized
// base type, and no unrecognized bits.
func IsValidSighashType(t byte) bool {
	if t&sighashKnownBits != t {
		return false
	}
	if t&SighashForkID == 0 {
		return false
	}
	base := t & sighashBaseTypeMask
	return base == SighashAll || base == SighashNone || base == SighashSingle
}

// IsValidSignatureEncodingBCHTransaction reports whether sig is either
// the empty (null) signature, a strict-DER ECDSA signature followed by
// one valid sighash-type byte, or a 65-byte Schnorr signature (64-byte
// signature plus one valid sighash-type byte).
func IsValidSignatureEncodingBCHTransaction(sig []byte) bool {
	if len(sig) == 0 {
		return true
	}

	hashType := sig[len(sig)-1]
	if !IsValidSighashType(hashType) {
		return false
	}
	body := sig[:len(sig)-1]

	if len(body) == schnorr.SignatureLength {
		return true
	}

	_, err := ecdsa.ParseDERStrict(body)
	return err == nil
}

// IsValidRawSignatureEncoding reports whether sig is either the empty
// (null) signature, a strict-DER ECDSA signature, or a 64-byte Schnorr
// signature — the shape OP_CHECKDATASIG(VERIFY) expects, which unlike
// OP_CHECKSIG carries no trailing sighash-type byte.
func IsValidRawSignatureEncoding(sig []byte) bool {
	if len(sig) == 0 {
		return true
	}
	if len(sig) == schnorr.SignatureLength {
		return true
	}
	_, err := ecdsa.ParseDERStrict(sig)
	return err == nil
}

// SplitSignatureAndHashType splits a signature-plus-hashtype byte
// string into its signature body and trailing sighash-type byte. It
// assumes the caller has already validated the encoding.
func SplitSignatureAndHashType(sig []byte) (body []byte, hashType byte) {
	if len(sig) == 0 {
		return nil, 0
	}
	return sig[:len(sig)-1], sig[len(sig)-1]
}

// IsValidPublicKeyEncoding re-exports the shape check from pkg/crypto/keys
// so callers of this package don't need to import keys directly just
// to validate a pubkey.
func IsValidPublicKeyEncoding(pub []byte) bool {
	return keys.IsValidPublicKeyEncoding(pub)
}
