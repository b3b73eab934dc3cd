package opcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringer(t *testing.T) {
	tests := map[Opcode]string{
		OP_ADD:    "OP_ADD",
		OP_SUB:    "OP_SUB",
		OP_VERIFY: "OP_VERIFY",
		0x4b:      "OP_PUSHBYTES75",
		0xff:      "Opcode(255)",
	}
	for o, s := range tests {
		assert.Equal(t, s, o.String())
	}
}

func TestFromString(t *testing.T) {
	_, err := FromString("abcdef")
	require.Error(t, err)

	op, err := FromString(OP_MUL.String())
	require.NoError(t, err)
	require.Equal(t, OP_MUL, op)
}

func TestIsPush(t *testing.T) {
	assert.True(t, IsPush(OP_0))
	assert.True(t, IsPush(OP_PUSHDATA4))
	assert.True(t, IsPush(0x01))
	assert.False(t, IsPush(OP_1NEGATE))
	assert.False(t, IsPush(OP_ADD))
}

func TestIsSmallInteger(t *testing.T) {
	assert.True(t, IsSmallInteger(OP_1))
	assert.True(t, IsSmallInteger(OP_16))
	assert.False(t, IsSmallInteger(OP_0))
	assert.False(t, IsSmallInteger(OP_1NEGATE))
}
