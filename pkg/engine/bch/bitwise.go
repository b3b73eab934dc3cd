package bch

import (
	"bytes"

	"github.com/bchscript/bchengine/pkg/engine"
	"github.com/bchscript/bchengine/pkg/instruction"
	"github.com/bchscript/bchengine/pkg/opcode"
)

func binaryByteOp(f func(a, b byte) byte) engine.Handler {
	return func(st *engine.State, inst instruction.Instruction) {
		a, b, ok := engine.PopTwo(st)
		if !ok {
			return
		}
		if len(a) != len(b) {
			st.Fail(engine.ErrInvalidStackIndex)
			return
		}
		out := make([]byte, len(a))
		for i := range a {
			out[i] = f(a[i], b[i])
		}
		engine.PushToStack(st, out)
	}
}

func (s *InstructionSet) registerBitwise() {
	s.register(opcode.OP_INVERT, func(st *engine.State, inst instruction.Instruction) {
		if !st.Options.EnableInvert {
			st.Fail(engine.ErrDisabledOpcode)
			return
		}
		v, ok := engine.PopOne(st)
		if !ok {
			return
		}
		out := make([]byte, len(v))
		for i, b := range v {
			out[i] = ^b
		}
		engine.PushToStack(st, out)
	})

	s.register(opcode.OP_AND, binaryByteOp(func(a, b byte) byte { return a & b }))
	s.register(opcode.OP_OR, binaryByteOp(func(a, b byte) byte { return a | b }))
	s.register(opcode.OP_XOR, binaryByteOp(func(a, b byte) byte { return a ^ b }))

	s.register(opcode.OP_EQUAL, func(st *engine.State, inst instruction.Instruction) {
		a, b, ok := engine.PopTwo(st)
		if !ok {
			return
		}
		engine.PushToStack(st, booleanToScriptNumber(bytes.Equal(a, b)))
	})

	s.register(opcode.OP_EQUALVERIFY, func(st *engine.State, inst instruction.Instruction) {
		a, b, ok := engine.PopTwo(st)
		if !ok {
			return
		}
		if !bytes.Equal(a, b) {
			st.Fail(engine.ErrFailedVerify)
		}
	})
}
