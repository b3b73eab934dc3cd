// Package hash wraps the digest algorithms the engine depends on:
// SHA-1, SHA-256 and SHA-512 from the standard library, RIPEMD-160
// from golang.org/x/crypto (absent from the stdlib), and the two
// composite Bitcoin digests built from them.
package hash

import (
	"crypto/sha1"  //nolint:gosec // consensus requires SHA-1 for OP_SHA1/HASH160 lineage, not used for security here
	"crypto/sha256"
	"crypto/sha512"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // consensus-mandated, not a security choice
)

// SHA1 returns the 20-byte SHA-1 digest of b.
func SHA1(b []byte) []byte {
	h := sha1.Sum(b) //nolint:gosec
	return h[:]
}

// SHA256 returns the 32-byte SHA-256 digest of b.
func SHA256(b []byte) []byte {
	h := sha256.Sum256(b)
	return h[:]
}

// SHA512 returns the 64-byte SHA-512 digest of b.
func SHA512(b []byte) []byte {
	h := sha512.Sum512(b)
	return h[:]
}

// RIPEMD160 returns the 20-byte RIPEMD-160 digest of b.
func RIPEMD160(b []byte) []byte {
	h := ripemd160.New()
	_, _ = h.Write(b) // ripemd160.digest.Write never errors
	return h.Sum(nil)
}

// Hash256 is double SHA-256: sha256(sha256(b)). It's the digest
// Bitcoin signs and the one block/transaction hashes use.
func Hash256(b []byte) []byte {
	return SHA256(SHA256(b))
}

// Hash160 is RIPEMD-160 of SHA-256: ripemd160(sha256(b)). It's the
// digest behind P2PKH/P2SH addresses.
func Hash160(b []byte) []byte {
	return RIPEMD160(SHA256(b))
}
