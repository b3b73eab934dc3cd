package bch

import (
	"bytes"
	"testing"

	"github.com/bchscript/bchengine/pkg/crypto/ecdsa"
	"github.com/bchscript/bchengine/pkg/crypto/hash"
	"github.com/bchscript/bchengine/pkg/crypto/keys"
	"github.com/bchscript/bchengine/pkg/engine"
	"github.com/bchscript/bchengine/pkg/instruction"
	"github.com/bchscript/bchengine/pkg/opcode"
	"github.com/bchscript/bchengine/pkg/sighash"
	"github.com/bchscript/bchengine/pkg/sigencoding"
	"github.com/bchscript/bchengine/pkg/txcontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pushInstr(data []byte) instruction.Instruction {
	if len(data) == 0 {
		return instruction.Instruction{Opcode: opcode.OP_0}
	}
	return instruction.Instruction{Opcode: opcode.Opcode(len(data)), Data: data}
}

func sampleTxContext() *txcontext.Context {
	return &txcontext.Context{
		Version:                    2,
		TransactionOutpoints:       make([]byte, 36),
		TransactionSequenceNumbers: make([]byte, 4),
		OutpointIndex:              0,
		OutputValue:                5000,
		SequenceNumber:             0xffffffff,
		TransactionOutputs:         []byte{0x01, 0x02, 0x03},
		Locktime:                   0,
	}
}

func p2pkhLockingScript(h160 []byte) []instruction.Instruction {
	return []instruction.Instruction{
		{Opcode: opcode.OP_DUP},
		{Opcode: opcode.OP_HASH160},
		pushInstr(h160),
		{Opcode: opcode.OP_EQUALVERIFY},
		{Opcode: opcode.OP_CHECKSIG},
	}
}

func buildP2PKHProgram(t *testing.T, priv []byte, mutateOutputValue bool) engine.Program {
	t.Helper()
	pub, err := keys.DerivePublicKeyCompressed(priv)
	require.NoError(t, err)
	h160 := hash.Hash160(pub)

	locking := p2pkhLockingScript(h160)
	coveredBytecode := instruction.Serialize(locking)
	hashType := sigencoding.SighashAll | sigencoding.SighashForkID

	ctx := sampleTxContext()
	preimage := sighash.GenerateSigningSerializationBCH(ctx, coveredBytecode, hashType, nil)
	digest := sighash.Digest(preimage)

	sigDER, err := ecdsa.SignMessageHashDER(priv, digest)
	require.NoError(t, err)
	sigWithType := append(append([]byte(nil), sigDER...), hashType)

	if mutateOutputValue {
		ctx.OutputValue++
	}

	unlocking := []instruction.Instruction{pushInstr(sigWithType), pushInstr(pub)}
	instructions := append(append([]instruction.Instruction(nil), unlocking...), locking...)

	return engine.Program{
		Instructions:    instructions,
		Context:         ctx,
		Options:         engine.DefaultOptions(),
		ScriptCodeStart: len(unlocking),
	}
}

func TestP2PKHSuccess(t *testing.T) {
	priv := bytes.Repeat([]byte{0x11}, 32)
	p := buildP2PKHProgram(t, priv, false)
	set := New()

	final := engine.Evaluate(p, set)
	require.NoError(t, final.Err)
	require.Len(t, final.Stack, 1)
	assert.Equal(t, []byte{0x01}, final.Stack[0])
	assert.True(t, set.Verify(final))
}

func TestP2PKHFailsOnMutatedOutputValue(t *testing.T) {
	priv := bytes.Repeat([]byte{0x11}, 32)

	// Build the program against the original output value, then mutate
	// the signed context afterwards so the signature was computed over
	// a different preimage than what gets verified.
	pub, err := keys.DerivePublicKeyCompressed(priv)
	require.NoError(t, err)
	h160 := hash.Hash160(pub)
	locking := p2pkhLockingScript(h160)
	coveredBytecode := instruction.Serialize(locking)
	hashType := sigencoding.SighashAll | sigencoding.SighashForkID

	ctx := sampleTxContext()
	preimage := sighash.GenerateSigningSerializationBCH(ctx, coveredBytecode, hashType, nil)
	digest := sighash.Digest(preimage)
	sigDER, err := ecdsa.SignMessageHashDER(priv, digest)
	require.NoError(t, err)
	sigWithType := append(append([]byte(nil), sigDER...), hashType)

	ctx.OutputValue++ // mutate after signing

	unlocking := []instruction.Instruction{pushInstr(sigWithType), pushInstr(pub)}
	instructions := append(append([]instruction.Instruction(nil), unlocking...), locking...)
	p := engine.Program{
		Instructions:    instructions,
		Context:         ctx,
		Options:         engine.DefaultOptions(),
		ScriptCodeStart: len(unlocking),
	}

	set := New()
	final := engine.Evaluate(p, set)
	require.NoError(t, final.Err)
	require.Len(t, final.Stack, 1)
	assert.Empty(t, final.Stack[0])
	assert.False(t, set.Verify(final))
}

func TestMultisigNullDummy(t *testing.T) {
	privA := bytes.Repeat([]byte{0x22}, 32)
	privB := bytes.Repeat([]byte{0x33}, 32)
	privC := bytes.Repeat([]byte{0x44}, 32)
	pubA, _ := keys.DerivePublicKeyCompressed(privA)
	pubB, _ := keys.DerivePublicKeyCompressed(privB)
	pubC, _ := keys.DerivePublicKeyCompressed(privC)

	locking := []instruction.Instruction{
		{Opcode: opcode.OP_2},
		pushInstr(pubA), pushInstr(pubB), pushInstr(pubC),
		{Opcode: opcode.OP_3},
		{Opcode: opcode.OP_CHECKMULTISIG},
	}
	coveredBytecode := instruction.Serialize(locking)
	hashType := sigencoding.SighashAll | sigencoding.SighashForkID
	ctx := sampleTxContext()
	preimage := sighash.GenerateSigningSerializationBCH(ctx, coveredBytecode, hashType, nil)
	digest := sighash.Digest(preimage)

	sigA, err := ecdsa.SignMessageHashDER(privA, digest)
	require.NoError(t, err)
	sigB, err := ecdsa.SignMessageHashDER(privB, digest)
	require.NoError(t, err)
	sigAWithType := append(append([]byte(nil), sigA...), hashType)
	sigBWithType := append(append([]byte(nil), sigB...), hashType)

	buildProgram := func(dummy instruction.Instruction, requireBugZero bool) engine.Program {
		unlocking := []instruction.Instruction{dummy, pushInstr(sigAWithType), pushInstr(sigBWithType)}
		instructions := append(append([]instruction.Instruction(nil), unlocking...), locking...)
		opts := engine.DefaultOptions()
		opts.RequireBugValueZero = requireBugZero
		return engine.Program{
			Instructions:    instructions,
			Context:         ctx,
			Options:         opts,
			ScriptCodeStart: len(unlocking),
		}
	}

	set := New()

	okProgram := buildProgram(instruction.Instruction{Opcode: opcode.OP_0}, true)
	okFinal := engine.Evaluate(okProgram, set)
	require.NoError(t, okFinal.Err)
	assert.True(t, set.Verify(okFinal))

	badProgram := buildProgram(instruction.Instruction{Opcode: opcode.OP_1}, true)
	badFinal := engine.Evaluate(badProgram, set)
	require.Error(t, badFinal.Err)
	engErr, ok := badFinal.Err.(*engine.Error)
	require.True(t, ok)
	assert.Equal(t, engine.ErrInvalidProtocolBugValue, engErr.Kind)
}

func TestCheckDataSigUsesSingleSHA256Digest(t *testing.T) {
	priv := bytes.Repeat([]byte{0x22}, 32)
	pub, err := keys.DerivePublicKeyCompressed(priv)
	require.NoError(t, err)
	msg := []byte("arbitrary data, not a sighash preimage")

	// Sign the single-SHA256 digest: this is what OP_CHECKDATASIG must
	// verify against.
	sig, err := ecdsa.SignMessageHashDER(priv, hash.SHA256(msg))
	require.NoError(t, err)

	buildProgram := func(sig []byte) engine.Program {
		instructions := []instruction.Instruction{
			pushInstr(sig),
			pushInstr(msg),
			pushInstr(pub),
			{Opcode: opcode.OP_CHECKDATASIG},
		}
		return engine.Program{Instructions: instructions, Context: sampleTxContext(), Options: engine.DefaultOptions()}
	}

	final := engine.Evaluate(buildProgram(sig), New())
	require.NoError(t, final.Err)
	require.Len(t, final.Stack, 1)
	assert.Equal(t, []byte{0x01}, final.Stack[0])

	// A signature over Hash256(msg) (double SHA-256) must NOT verify:
	// if the handler ever hashed the message twice instead of once,
	// this would wrongly succeed.
	wrongSig, err := ecdsa.SignMessageHashDER(priv, hash.Hash256(msg))
	require.NoError(t, err)

	wrongFinal := engine.Evaluate(buildProgram(wrongSig), New())
	require.Error(t, wrongFinal.Err)
	engErr, ok := wrongFinal.Err.(*engine.Error)
	require.True(t, ok)
	assert.Equal(t, engine.ErrNonNullSignatureFailure, engErr.Kind)
}

func TestVerifOpcodeFailsEvenInUntakenBranch(t *testing.T) {
	// push false, enter the IF, never take it, but OP_VERIF still
	// sits in the dead branch and must still be reached and fail.
	instructions := []instruction.Instruction{
		{Opcode: opcode.OP_0},
		{Opcode: opcode.OP_IF},
		{Opcode: opcode.OP_VERIF},
		{Opcode: opcode.OP_ENDIF},
		{Opcode: opcode.OP_1},
	}
	p := engine.Program{Instructions: instructions, Context: sampleTxContext(), Options: engine.DefaultOptions()}
	final := engine.Evaluate(p, New())

	require.Error(t, final.Err)
	engErr, ok := final.Err.(*engine.Error)
	require.True(t, ok)
	assert.Equal(t, engine.ErrUnknownOpcode, engErr.Kind)
}

func TestElementSizeCapOnPush(t *testing.T) {
	big := make([]byte, engine.DefaultOptions().MaxScriptElementSize+1)
	instructions := []instruction.Instruction{
		{Opcode: opcode.OP_PUSHDATA2, Data: big},
		{Opcode: opcode.OP_SIZE},
	}
	p := engine.Program{Instructions: instructions, Context: sampleTxContext(), Options: engine.DefaultOptions()}
	final := engine.Evaluate(p, New())

	require.Error(t, final.Err)
	engErr, ok := final.Err.(*engine.Error)
	require.True(t, ok)
	assert.Equal(t, engine.ErrExceededMaximumElementSize, engErr.Kind)
}
