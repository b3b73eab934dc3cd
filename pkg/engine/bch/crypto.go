package bch

import (
	"github.com/bchscript/bchengine/pkg/crypto/ecdsa"
	"github.com/bchscript/bchengine/pkg/crypto/hash"
	"github.com/bchscript/bchengine/pkg/crypto/schnorr"
	"github.com/bchscript/bchengine/pkg/engine"
	"github.com/bchscript/bchengine/pkg/instruction"
	"github.com/bchscript/bchengine/pkg/opcode"
	"github.com/bchscript/bchengine/pkg/sighash"
	"github.com/bchscript/bchengine/pkg/sigencoding"
	"github.com/bchscript/bchengine/pkg/txcontext"
)

func hashOp(f func([]byte) []byte) engine.Handler {
	return func(st *engine.State, inst instruction.Instruction) {
		v, ok := engine.PopOne(st)
		if !ok {
			return
		}
		engine.PushToStack(st, f(v))
	}
}

func (s *InstructionSet) registerCrypto() {
	s.register(opcode.OP_RIPEMD160, hashOp(hash.RIPEMD160))
	s.register(opcode.OP_SHA1, hashOp(hash.SHA1))
	s.register(opcode.OP_SHA256, hashOp(hash.SHA256))
	s.register(opcode.OP_HASH160, hashOp(hash.Hash160))
	s.register(opcode.OP_HASH256, hashOp(hash.Hash256))

	s.register(opcode.OP_CODESEPARATOR, func(st *engine.State, inst instruction.Instruction) {
		st.LastCodeSeparator = st.IP - 1
	})

	s.register(opcode.OP_CHECKSIG, checkSigHandler(false))
	s.register(opcode.OP_CHECKSIGVERIFY, checkSigHandler(true))
	s.register(opcode.OP_CHECKMULTISIG, checkMultiSigHandler(false))
	s.register(opcode.OP_CHECKMULTISIGVERIFY, checkMultiSigHandler(true))
	s.register(opcode.OP_CHECKDATASIG, checkDataSigHandler(false))
	s.register(opcode.OP_CHECKDATASIGVERIFY, checkDataSigHandler(true))
}

func midstateFor(st *engine.State) *sighash.Midstate {
	if st.Options.Midstate == nil {
		return nil
	}
	return st.Options.Midstate.Get(st.Options.TxIdentifier, st.Context)
}

// verifyTransactionSignature implements the OP_CHECKSIG verification
// steps: encoding checks, sighash preimage construction over the
// covered bytecode, and Schnorr-or-ECDSA dispatch by signature length.
// ok is false when a fatal encoding error was raised; success is only
// meaningful when ok is true.
func verifyTransactionSignature(st *engine.State, sigWithType, pubKey []byte) (success, ok bool) {
	if !sigencoding.IsValidPublicKeyEncoding(pubKey) {
		st.Fail(engine.ErrInvalidPublicKeyEncoding)
		return false, false
	}
	if !sigencoding.IsValidSignatureEncodingBCHTransaction(sigWithType) {
		st.Fail(engine.ErrInvalidSignatureEncoding)
		return false, false
	}
	if len(sigWithType) == 0 {
		return false, true
	}

	sigBody, hashType := sigencoding.SplitSignatureAndHashType(sigWithType)
	coveredBytecode := txcontext.CoveredBytecode(st.Instructions, st.LastCodeSeparator)
	preimage := sighash.GenerateSigningSerializationBCH(st.Context, coveredBytecode, hashType, midstateFor(st))
	digest := sighash.Digest(preimage)

	if len(sigBody) == schnorr.SignatureLength {
		return schnorr.VerifySignatureSchnorr(sigBody, pubKey, digest), true
	}
	return ecdsa.VerifySignatureDERLowS(sigBody, pubKey, digest), true
}

func checkSigHandler(verify bool) engine.Handler {
	return func(st *engine.State, inst instruction.Instruction) {
		pub, ok := engine.PopOne(st)
		if !ok {
			return
		}
		sig, ok := engine.PopOne(st)
		if !ok {
			return
		}

		success, ok := verifyTransactionSignature(st, sig, pub)
		if !ok {
			return
		}
		if !success && st.Options.RequireNullSigFailures && len(sig) != 0 {
			st.Fail(engine.ErrNonNullSignatureFailure)
			return
		}
		if verify {
			if !success {
				st.Fail(engine.ErrFailedVerify)
			}
			return
		}
		engine.PushToStack(st, booleanToScriptNumber(success))
	}
}

func checkDataSigHandler(verify bool) engine.Handler {
	return func(st *engine.State, inst instruction.Instruction) {
		pub, ok := engine.PopOne(st)
		if !ok {
			return
		}
		msg, ok := engine.PopOne(st)
		if !ok {
			return
		}
		sig, ok := engine.PopOne(st)
		if !ok {
			return
		}

		if !sigencoding.IsValidPublicKeyEncoding(pub) {
			st.Fail(engine.ErrInvalidPublicKeyEncoding)
			return
		}
		if !sigencoding.IsValidRawSignatureEncoding(sig) {
			st.Fail(engine.ErrInvalidSignatureEncoding)
			return
		}

		var success bool
		if len(sig) != 0 {
			digest := hash.SHA256(msg)
			if len(sig) == schnorr.SignatureLength {
				success = schnorr.VerifySignatureSchnorr(sig, pub, digest)
			} else {
				success = ecdsa.VerifySignatureDERLowS(sig, pub, digest)
			}
		}

		if !success && st.Options.RequireNullSigFailures && len(sig) != 0 {
			st.Fail(engine.ErrNonNullSignatureFailure)
			return
		}
		if verify {
			if !success {
				st.Fail(engine.ErrFailedVerify)
			}
			return
		}
		engine.PushToStack(st, booleanToScriptNumber(success))
	}
}

// checkMultiSigHandler implements OP_CHECKMULTISIG(VERIFY): pop order
// is pubkey-count, pubkeys, sig-count, signatures, protocol-bug value
// (top to bottom), exactly mirroring how a locking script of the form
// `M pk1..pkN N CHECKMULTISIG` leaves the stack once the unlocking
// script's `0 sig1..sigM` has run beneath it.
func checkMultiSigHandler(verify bool) engine.Handler {
	return func(st *engine.State, inst instruction.Instruction) {
		keyCount, ok := engine.PopScriptNumber(st, st.Options.RequireMinimalPush)
		if !ok {
			return
		}
		if keyCount < 0 || keyCount > int64(st.Options.MaxMultisigPublicKeys) {
			st.Fail(engine.ErrExceedsMaximumMultisigPublicKeys)
			return
		}

		keys := make([][]byte, keyCount)
		for i := int64(0); i < keyCount; i++ {
			v, ok := engine.PopOne(st)
			if !ok {
				return
			}
			keys[keyCount-1-i] = v
		}

		st.OperationCount += int(keyCount)
		if st.OperationCount > st.Options.MaxOperationCount {
			st.Fail(engine.ErrExceededMaximumOperationCount)
			return
		}

		sigCount, ok := engine.PopScriptNumber(st, st.Options.RequireMinimalPush)
		if !ok {
			return
		}
		if sigCount < 0 || sigCount > keyCount {
			st.Fail(engine.ErrInsufficientPublicKeys)
			return
		}

		sigs := make([][]byte, sigCount)
		for i := int64(0); i < sigCount; i++ {
			v, ok := engine.PopOne(st)
			if !ok {
				return
			}
			sigs[sigCount-1-i] = v
		}

		bugValue, ok := engine.PopOne(st)
		if !ok {
			return
		}
		if st.Options.RequireBugValueZero && len(bugValue) != 0 {
			st.Fail(engine.ErrInvalidProtocolBugValue)
			return
		}

		for _, sig := range sigs {
			if len(sig) == schnorr.SignatureLength {
				st.Fail(engine.ErrSchnorrSizedSignatureInCheckMulti)
				return
			}
		}

		anyNonNull := false
		ki, si, matched := 0, 0, 0
		for si < len(sigs) && ki < len(keys) {
			sig := sigs[si]
			if len(sig) != 0 {
				anyNonNull = true
			}
			pub := keys[ki]
			if !sigencoding.IsValidPublicKeyEncoding(pub) {
				st.Fail(engine.ErrInvalidPublicKeyEncoding)
				return
			}
			if !sigencoding.IsValidSignatureEncodingBCHTransaction(sig) {
				st.Fail(engine.ErrInvalidSignatureEncoding)
				return
			}
			success, ok := verifyTransactionSignature(st, sig, pub)
			if !ok {
				return
			}
			if success {
				si++
				matched++
			}
			ki++
		}

		success := matched == len(sigs)
		if !success && st.Options.RequireNullSigFailures && anyNonNull {
			st.Fail(engine.ErrNonNullSignatureFailure)
			return
		}

		if verify {
			if !success {
				st.Fail(engine.ErrFailedVerify)
			}
			return
		}
		engine.PushToStack(st, booleanToScriptNumber(success))
	}
}
