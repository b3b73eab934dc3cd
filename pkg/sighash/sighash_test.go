package sighash

import (
	"testing"

	"github.com/bchscript/bchengine/pkg/crypto/hash"
	"github.com/bchscript/bchengine/pkg/sigencoding"
	"github.com/bchscript/bchengine/pkg/txcontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleContext() *txcontext.Context {
	ctx := &txcontext.Context{
		Version:                    2,
		TransactionOutpoints:       make([]byte, 36),
		TransactionSequenceNumbers: make([]byte, 4),
		OutpointIndex:              0,
		OutputValue:                5000,
		SequenceNumber:             0xffffffff,
		TransactionOutputs:         []byte{0x01, 0x02, 0x03},
		Locktime:                   0,
	}
	return ctx
}

func TestPreimageDeterministic(t *testing.T) {
	ctx := sampleContext()
	hashType := sigencoding.SighashAll | sigencoding.SighashForkID

	p1 := GenerateSigningSerializationBCH(ctx, []byte{0x76, 0xa9}, hashType, nil)
	p2 := GenerateSigningSerializationBCH(ctx, []byte{0x76, 0xa9}, hashType, nil)
	assert.Equal(t, p1, p2)
}

func TestAnyoneCanPayZeroesPrevouts(t *testing.T) {
	ctx := sampleContext()
	hashType := sigencoding.SighashAll | sigencoding.SighashForkID | sigencoding.SighashAnyOneCanPay

	preimage := GenerateSigningSerializationBCH(ctx, nil, hashType, nil)
	// version(4) + hashPrevouts(32) starts at offset 4.
	require.True(t, len(preimage) >= 36)
	assert.Equal(t, make([]byte, 32), preimage[4:36])
}

func TestMutatingOutputValueChangesDigest(t *testing.T) {
	ctx := sampleContext()
	hashType := sigencoding.SighashAll | sigencoding.SighashForkID

	original := Digest(GenerateSigningSerializationBCH(ctx, nil, hashType, nil))

	ctx.OutputValue++
	mutated := Digest(GenerateSigningSerializationBCH(ctx, nil, hashType, nil))

	assert.NotEqual(t, original, mutated)
}

func TestDigestIsDoubleSHA256(t *testing.T) {
	ctx := sampleContext()
	hashType := sigencoding.SighashAll | sigencoding.SighashForkID
	preimage := GenerateSigningSerializationBCH(ctx, nil, hashType, nil)

	assert.Equal(t, hash.Hash256(preimage), Digest(preimage))
}

func TestMidstateCache(t *testing.T) {
	c, err := NewMidstateCache(4)
	require.NoError(t, err)

	ctx := sampleContext()
	m1 := c.Get("tx1", ctx)
	m2 := c.Get("tx1", ctx)
	assert.Same(t, m1, m2)
}
