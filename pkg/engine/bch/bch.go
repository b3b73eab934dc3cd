// Package bch assembles the concrete BCH common opcode table: the
// InstructionSet the generic engine core steps through to validate a
// real unlocking/locking script pair.
package bch

import (
	"github.com/bchscript/bchengine/pkg/engine"
	"github.com/bchscript/bchengine/pkg/instruction"
	"github.com/bchscript/bchengine/pkg/opcode"
	"github.com/bchscript/bchengine/pkg/scriptnum"
)

// InstructionSet is the BCH common opcode set's engine.InstructionSet
// implementation.
type InstructionSet struct {
	ops map[byte]engine.Handler
}

// New builds the full BCH common opcode table.
func New() *InstructionSet {
	s := &InstructionSet{ops: make(map[byte]engine.Handler, 128)}
	s.registerPush()
	s.registerFlow()
	s.registerStack()
	s.registerSplice()
	s.registerBitwise()
	s.registerArithmetic()
	s.registerCrypto()
	s.registerLocktime()
	return s
}

// Operations implements engine.InstructionSet.
func (s *InstructionSet) Operations() map[byte]engine.Handler {
	return s.ops
}

// Undefined implements engine.InstructionSet: any opcode without a
// registered handler is a hard failure, including the reserved words
// (OP_VER, OP_VERIF, OP_VERNOTIF, OP_RESERVED, OP_RESERVED1/2) and
// anything above OP_CHECKDATASIGVERIFY.
func (s *InstructionSet) Undefined(st *engine.State, inst instruction.Instruction) {
	st.Fail(engine.ErrUnknownOpcode)
}

// Verify implements engine.InstructionSet: a script evaluation
// succeeds iff it terminated without error, left exactly the
// conventional single boolean result on the stack, and that result is
// truthy.
func (s *InstructionSet) Verify(st *engine.State) bool {
	if st.Err != nil || len(st.Stack) != 1 {
		return false
	}
	return scriptnum.Bool(st.Stack[0])
}

func (s *InstructionSet) register(op opcode.Opcode, h engine.Handler) {
	s.ops[byte(op)] = h
}

// booleanToScriptNumber renders a boolean as the canonical script-number
// encoding: empty for false, {0x01} for true.
func booleanToScriptNumber(b bool) []byte {
	if b {
		return []byte{0x01}
	}
	return nil
}
