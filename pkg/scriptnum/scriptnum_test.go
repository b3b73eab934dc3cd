package scriptnum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 127, 128, -128, 255, 256, -256, 32767, 32768, -32768,
		1<<31 - 1, -(1<<31 - 1)}
	for _, v := range values {
		enc := Encode(v)
		dec, err := Decode(enc, true, 5)
		require.NoError(t, err)
		assert.Equal(t, v, dec, "value %d", v)
	}
}

func TestEncodeZeroIsEmpty(t *testing.T) {
	assert.Equal(t, []byte(nil), Encode(0))
}

func TestDecodeEmptyIsZero(t *testing.T) {
	v, err := Decode(nil, true, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)
}

func TestDecodeRejectsNonMinimal(t *testing.T) {
	_, err := Decode([]byte{0x00}, true, 4)
	assert.ErrorIs(t, err, ErrNotMinimal)

	_, err = Decode([]byte{0x01, 0x00}, true, 4)
	assert.ErrorIs(t, err, ErrNotMinimal)

	// Minimal padding byte is fine: 0xff alone would look negative.
	v, err := Decode([]byte{0xff, 0x00}, true, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(255), v)
}

func TestDecodeTooLong(t *testing.T) {
	_, err := Decode([]byte{1, 2, 3, 4, 5}, false, 4)
	assert.ErrorIs(t, err, ErrTooLong)
}

func TestBool(t *testing.T) {
	assert.False(t, Bool(nil))
	assert.False(t, Bool([]byte{0x00}))
	assert.False(t, Bool([]byte{0x80})) // negative zero
	assert.True(t, Bool([]byte{0x01}))
	assert.True(t, Bool([]byte{0x00, 0x01}))
}
