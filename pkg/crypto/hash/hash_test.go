package hash

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSHA256(t *testing.T) {
	data := SHA256([]byte("hello"))
	expected := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	assert.Equal(t, expected, hex.EncodeToString(data))
}

func TestSHA1(t *testing.T) {
	data := SHA1([]byte("abc"))
	expected := "a9993e364706816aba3e25717850c26c9cd0d89"
	assert.Equal(t, expected, hex.EncodeToString(data))
}

func TestRIPEMD160(t *testing.T) {
	data := RIPEMD160([]byte("hello"))
	expected := "108f07b8382412612c048d07d13f814118445acd"
	assert.Equal(t, expected, hex.EncodeToString(data))
}

func TestSHA512(t *testing.T) {
	data := SHA512([]byte("abc"))
	expected := "ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f"
	assert.Equal(t, expected, hex.EncodeToString(data))
}

func TestHash256(t *testing.T) {
	input := []byte("hello")
	want := SHA256(SHA256(input))
	assert.Equal(t, want, Hash256(input))
}

func TestHash160(t *testing.T) {
	input := []byte("hello")
	want := RIPEMD160(SHA256(input))
	assert.Equal(t, want, Hash160(input))
}
