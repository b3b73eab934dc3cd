package instruction

import (
	"testing"

	"github.com/bchscript/bchengine/pkg/opcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSerializeRoundTrip(t *testing.T) {
	tests := [][]byte{
		{byte(opcode.OP_DUP), byte(opcode.OP_HASH160)},
		{0x03, 0x01, 0x02, 0x03, byte(opcode.OP_EQUAL)},
		append([]byte{byte(opcode.OP_PUSHDATA1), 0x02}, []byte{0xca, 0xfe}...),
		append(append([]byte{byte(opcode.OP_PUSHDATA2)}, 0x02, 0x00), []byte{0xca, 0xfe}...),
		{byte(opcode.OP_1), byte(opcode.OP_16), byte(opcode.OP_CHECKMULTISIG)},
	}
	for _, b := range tests {
		parsed := Parse(b)
		got := Serialize(parsed)
		assert.Equal(t, b, got)
	}
}

func TestParseTruncatedPush(t *testing.T) {
	script := []byte{byte(opcode.OP_PUSHDATA2), 0x09, 0x02, 0x01, 0x02}
	instrs := Parse(script)
	require.Len(t, instrs, 1)
	assert.True(t, instrs[0].Malformed)
}

func TestParsePushBytes(t *testing.T) {
	script := []byte{0x02, 0xde, 0xad}
	instrs := Parse(script)
	require.Len(t, instrs, 1)
	assert.Equal(t, []byte{0xde, 0xad}, instrs[0].Data)
	assert.True(t, instrs[0].IsPush())
}

func TestCache(t *testing.T) {
	c, err := NewCache(8)
	require.NoError(t, err)

	script := []byte{byte(opcode.OP_DUP), byte(opcode.OP_HASH160)}
	first := c.Parse(script)
	second := c.Parse(script)
	assert.Equal(t, first, second)
}
