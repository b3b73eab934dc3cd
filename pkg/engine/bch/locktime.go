package bch

import (
	"github.com/bchscript/bchengine/pkg/engine"
	"github.com/bchscript/bchengine/pkg/instruction"
	"github.com/bchscript/bchengine/pkg/opcode"
	"github.com/bchscript/bchengine/pkg/scriptnum"
	"github.com/bchscript/bchengine/pkg/txcontext"
)

const locktimeMaxLen = 5

const (
	sequenceDisableFlag  = 1 << 31
	sequenceTypeFlag     = 1 << 22
	sequenceValueMask    = 0x0000ffff
	sequenceFinalAllOnes = 0xffffffff
)

func (s *InstructionSet) registerLocktime() {
	noop := func(st *engine.State, inst instruction.Instruction) {}
	s.register(opcode.OP_NOP1, noop)
	s.register(opcode.OP_NOP4, noop)
	s.register(opcode.OP_NOP5, noop)
	s.register(opcode.OP_NOP6, noop)
	s.register(opcode.OP_NOP7, noop)
	s.register(opcode.OP_NOP8, noop)
	s.register(opcode.OP_NOP9, noop)
	s.register(opcode.OP_NOP10, noop)

	s.register(opcode.OP_CHECKLOCKTIMEVERIFY, func(st *engine.State, inst instruction.Instruction) {
		top, ok := peekAt(st, 0)
		if !ok {
			return
		}
		locktime, err := scriptnum.Decode(top, st.Options.RequireMinimalPush, locktimeMaxLen)
		if err != nil || locktime < 0 {
			st.Fail(engine.ErrInvalidNaturalNumber)
			return
		}

		sameDomain := (locktime < txcontext.LocktimeThreshold) == (int64(st.Context.Locktime) < txcontext.LocktimeThreshold)
		if !sameDomain || locktime > int64(st.Context.Locktime) {
			st.Fail(engine.ErrUnsatisfiedLocktime)
			return
		}
		if st.Context.SequenceNumber == sequenceFinalAllOnes {
			st.Fail(engine.ErrUnsatisfiedLocktime)
		}
	})

	s.register(opcode.OP_CHECKSEQUENCEVERIFY, func(st *engine.State, inst instruction.Instruction) {
		top, ok := peekAt(st, 0)
		if !ok {
			return
		}
		sequence, err := scriptnum.Decode(top, st.Options.RequireMinimalPush, locktimeMaxLen)
		if err != nil || sequence < 0 {
			st.Fail(engine.ErrInvalidNaturalNumber)
			return
		}
		if sequence&sequenceDisableFlag != 0 {
			return
		}
		if st.Context.SequenceNumber&sequenceDisableFlag != 0 {
			st.Fail(engine.ErrUnsatisfiedSequenceNumber)
			return
		}

		txType := st.Context.SequenceNumber & sequenceTypeFlag
		reqType := uint32(sequence) & sequenceTypeFlag
		if txType != reqType {
			st.Fail(engine.ErrUnsatisfiedSequenceNumber)
			return
		}
		if uint32(sequence)&sequenceValueMask > st.Context.SequenceNumber&sequenceValueMask {
			st.Fail(engine.ErrUnsatisfiedSequenceNumber)
		}
	})
}
