package bch

import (
	"github.com/bchscript/bchengine/pkg/engine"
	"github.com/bchscript/bchengine/pkg/instruction"
	"github.com/bchscript/bchengine/pkg/opcode"
	"github.com/bchscript/bchengine/pkg/scriptnum"
)

func unaryNumOp(f func(int64) int64) engine.Handler {
	return func(st *engine.State, inst instruction.Instruction) {
		v, ok := engine.PopScriptNumber(st, st.Options.RequireMinimalPush)
		if !ok {
			return
		}
		engine.PushToStack(st, scriptnum.Encode(f(v)))
	}
}

func binaryNumOp(f func(a, b int64) int64) engine.Handler {
	return func(st *engine.State, inst instruction.Instruction) {
		b, ok := engine.PopScriptNumber(st, st.Options.RequireMinimalPush)
		if !ok {
			return
		}
		a, ok := engine.PopScriptNumber(st, st.Options.RequireMinimalPush)
		if !ok {
			return
		}
		engine.PushToStack(st, scriptnum.Encode(f(a, b)))
	}
}

func binaryBoolOp(f func(a, b int64) bool) engine.Handler {
	return func(st *engine.State, inst instruction.Instruction) {
		b, ok := engine.PopScriptNumber(st, st.Options.RequireMinimalPush)
		if !ok {
			return
		}
		a, ok := engine.PopScriptNumber(st, st.Options.RequireMinimalPush)
		if !ok {
			return
		}
		engine.PushToStack(st, booleanToScriptNumber(f(a, b)))
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func (s *InstructionSet) registerArithmetic() {
	s.register(opcode.OP_1ADD, unaryNumOp(func(v int64) int64 { return v + 1 }))
	s.register(opcode.OP_1SUB, unaryNumOp(func(v int64) int64 { return v - 1 }))
	s.register(opcode.OP_NEGATE, unaryNumOp(func(v int64) int64 { return -v }))
	s.register(opcode.OP_ABS, unaryNumOp(func(v int64) int64 {
		if v < 0 {
			return -v
		}
		return v
	}))
	s.register(opcode.OP_NOT, unaryNumOp(func(v int64) int64 { return boolToInt(v == 0) }))
	s.register(opcode.OP_0NOTEQUAL, unaryNumOp(func(v int64) int64 { return boolToInt(v != 0) }))

	disabled := func(st *engine.State, inst instruction.Instruction) {
		st.Fail(engine.ErrDisabledOpcode)
	}
	s.register(opcode.OP_2MUL, disabled)
	s.register(opcode.OP_2DIV, disabled)

	s.register(opcode.OP_ADD, binaryNumOp(func(a, b int64) int64 { return a + b }))
	s.register(opcode.OP_SUB, binaryNumOp(func(a, b int64) int64 { return a - b }))
	s.register(opcode.OP_BOOLAND, binaryBoolOp(func(a, b int64) bool { return a != 0 && b != 0 }))
	s.register(opcode.OP_BOOLOR, binaryBoolOp(func(a, b int64) bool { return a != 0 || b != 0 }))
	s.register(opcode.OP_NUMEQUAL, binaryBoolOp(func(a, b int64) bool { return a == b }))
	s.register(opcode.OP_NUMNOTEQUAL, binaryBoolOp(func(a, b int64) bool { return a != b }))
	s.register(opcode.OP_LESSTHAN, binaryBoolOp(func(a, b int64) bool { return a < b }))
	s.register(opcode.OP_GREATERTHAN, binaryBoolOp(func(a, b int64) bool { return a > b }))
	s.register(opcode.OP_LESSTHANOREQUAL, binaryBoolOp(func(a, b int64) bool { return a <= b }))
	s.register(opcode.OP_GREATERTHANOREQUAL, binaryBoolOp(func(a, b int64) bool { return a >= b }))
	s.register(opcode.OP_MIN, binaryNumOp(func(a, b int64) int64 {
		if a < b {
			return a
		}
		return b
	}))
	s.register(opcode.OP_MAX, binaryNumOp(func(a, b int64) int64 {
		if a > b {
			return a
		}
		return b
	}))

	s.register(opcode.OP_NUMEQUALVERIFY, func(st *engine.State, inst instruction.Instruction) {
		b, ok := engine.PopScriptNumber(st, st.Options.RequireMinimalPush)
		if !ok {
			return
		}
		a, ok := engine.PopScriptNumber(st, st.Options.RequireMinimalPush)
		if !ok {
			return
		}
		if a != b {
			st.Fail(engine.ErrFailedVerify)
		}
	})

	s.register(opcode.OP_MUL, func(st *engine.State, inst instruction.Instruction) {
		if !st.Options.EnableMul {
			st.Fail(engine.ErrDisabledOpcode)
			return
		}
		b, ok := engine.PopScriptNumber(st, st.Options.RequireMinimalPush)
		if !ok {
			return
		}
		a, ok := engine.PopScriptNumber(st, st.Options.RequireMinimalPush)
		if !ok {
			return
		}
		engine.PushToStack(st, scriptnum.Encode(a*b))
	})

	s.register(opcode.OP_DIV, func(st *engine.State, inst instruction.Instruction) {
		b, ok := engine.PopScriptNumber(st, st.Options.RequireMinimalPush)
		if !ok {
			return
		}
		a, ok := engine.PopScriptNumber(st, st.Options.RequireMinimalPush)
		if !ok {
			return
		}
		if b == 0 {
			st.Fail(engine.ErrInvalidNaturalNumber)
			return
		}
		engine.PushToStack(st, scriptnum.Encode(a/b))
	})

	s.register(opcode.OP_MOD, func(st *engine.State, inst instruction.Instruction) {
		b, ok := engine.PopScriptNumber(st, st.Options.RequireMinimalPush)
		if !ok {
			return
		}
		a, ok := engine.PopScriptNumber(st, st.Options.RequireMinimalPush)
		if !ok {
			return
		}
		if b == 0 {
			st.Fail(engine.ErrInvalidNaturalNumber)
			return
		}
		engine.PushToStack(st, scriptnum.Encode(a%b))
	})

	s.register(opcode.OP_LSHIFT, shiftHandler(true))
	s.register(opcode.OP_RSHIFT, shiftHandler(false))

	s.register(opcode.OP_WITHIN, func(st *engine.State, inst instruction.Instruction) {
		max, ok := engine.PopScriptNumber(st, st.Options.RequireMinimalPush)
		if !ok {
			return
		}
		min, ok := engine.PopScriptNumber(st, st.Options.RequireMinimalPush)
		if !ok {
			return
		}
		v, ok := engine.PopScriptNumber(st, st.Options.RequireMinimalPush)
		if !ok {
			return
		}
		engine.PushToStack(st, booleanToScriptNumber(v >= min && v < max))
	})
}

// shiftHandler implements OP_LSHIFT (left=true) and OP_RSHIFT
// (left=false): both reinterpret the operand as a raw big-endian bit
// string, not a script number, and shift by the popped bit count,
// zero-filling vacated bits and keeping the result the same length.
func shiftHandler(left bool) engine.Handler {
	return func(st *engine.State, inst instruction.Instruction) {
		enabled := st.Options.EnableLShift
		if !left {
			enabled = st.Options.EnableRShift
		}
		if !enabled {
			st.Fail(engine.ErrDisabledOpcode)
			return
		}
		n, ok := engine.PopScriptNumber(st, st.Options.RequireMinimalPush)
		if !ok {
			return
		}
		data, ok := engine.PopOne(st)
		if !ok {
			return
		}
		if n < 0 {
			st.Fail(engine.ErrInvalidNaturalNumber)
			return
		}
		var out []byte
		if left {
			out = shiftLeft(data, int(n))
		} else {
			out = shiftRight(data, int(n))
		}
		engine.PushToStack(st, out)
	}
}

func shiftLeft(data []byte, bits int) []byte {
	n := len(data)
	out := make([]byte, n)
	byteShift := bits / 8
	bitShift := uint(bits % 8)
	for i := 0; i < n; i++ {
		srcIdx := i + byteShift
		if srcIdx >= n {
			continue
		}
		var v byte = data[srcIdx] << bitShift
		if bitShift != 0 && srcIdx+1 < n {
			v |= data[srcIdx+1] >> (8 - bitShift)
		}
		out[i] = v
	}
	return out
}

func shiftRight(data []byte, bits int) []byte {
	n := len(data)
	out := make([]byte, n)
	byteShift := bits / 8
	bitShift := uint(bits % 8)
	for i := n - 1; i >= 0; i-- {
		srcIdx := i - byteShift
		if srcIdx < 0 {
			continue
		}
		var v byte = data[srcIdx] >> bitShift
		if bitShift != 0 && srcIdx-1 >= 0 {
			v |= data[srcIdx-1] << (8 - bitShift)
		}
		out[i] = v
	}
	return out
}
