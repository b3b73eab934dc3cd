package sigencoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidSighashType(t *testing.T) {
	assert.True(t, IsValidSighashType(SighashAll|SighashForkID))
	assert.True(t, IsValidSighashType(SighashSingle|SighashForkID|SighashAnyOneCanPay))
	assert.False(t, IsValidSighashType(SighashAll)) // missing forkid
	assert.False(t, IsValidSighashType(0x04|SighashForkID))
	assert.False(t, IsValidSighashType(0x00))
}

func TestIsValidSignatureEncodingEmpty(t *testing.T) {
	assert.True(t, IsValidSignatureEncodingBCHTransaction(nil))
}

func TestIsValidSignatureEncodingSchnorr(t *testing.T) {
	sig := make([]byte, 64+1)
	sig[len(sig)-1] = SighashAll | SighashForkID
	assert.True(t, IsValidSignatureEncodingBCHTransaction(sig))
}

func TestIsValidSignatureEncodingRejectsBadHashType(t *testing.T) {
	sig := make([]byte, 65)
	sig[len(sig)-1] = 0xff
	assert.False(t, IsValidSignatureEncodingBCHTransaction(sig))
}

func TestIsValidRawSignatureEncoding(t *testing.T) {
	assert.True(t, IsValidRawSignatureEncoding(nil))
	assert.True(t, IsValidRawSignatureEncoding(make([]byte, 64)))
	assert.False(t, IsValidRawSignatureEncoding(make([]byte, 63)))
}

func TestSplitSignatureAndHashType(t *testing.T) {
	body, ht := SplitSignatureAndHashType([]byte{0xaa, 0xbb, SighashAll | SighashForkID})
	assert.Equal(t, []byte{0xaa, 0xbb}, body)
	assert.Equal(t, SighashAll|SighashForkID, ht)
}
