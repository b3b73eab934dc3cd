package bch

import (
	"github.com/bchscript/bchengine/pkg/engine"
	"github.com/bchscript/bchengine/pkg/instruction"
	"github.com/bchscript/bchengine/pkg/opcode"
	"github.com/bchscript/bchengine/pkg/scriptnum"
)

const binaryNumMaxLen = 8

func (s *InstructionSet) registerSplice() {
	s.register(opcode.OP_CAT, func(st *engine.State, inst instruction.Instruction) {
		a, b, ok := engine.PopTwo(st)
		if !ok {
			return
		}
		out := make([]byte, 0, len(a)+len(b))
		out = append(out, a...)
		out = append(out, b...)
		engine.PushToStack(st, out)
	})

	s.register(opcode.OP_SPLIT, func(st *engine.State, inst instruction.Instruction) {
		n, ok := engine.PopScriptNumber(st, st.Options.RequireMinimalPush)
		if !ok {
			return
		}
		data, ok := engine.PopOne(st)
		if !ok {
			return
		}
		if n < 0 || int(n) > len(data) {
			st.Fail(engine.ErrInvalidStackIndex)
			return
		}
		left := append([]byte(nil), data[:n]...)
		right := append([]byte(nil), data[n:]...)
		if !engine.PushToStack(st, left) {
			return
		}
		engine.PushToStack(st, right)
	})

	s.register(opcode.OP_NUM2BIN, func(st *engine.State, inst instruction.Instruction) {
		size, ok := engine.PopScriptNumber(st, st.Options.RequireMinimalPush)
		if !ok {
			return
		}
		data, ok := engine.PopOne(st)
		if !ok {
			return
		}
		if size < 0 || size > int64(st.Options.MaxScriptElementSize) {
			st.Fail(engine.ErrExceededMaximumElementSize)
			return
		}
		out, ok := numToBin(data, int(size))
		if !ok {
			st.Fail(engine.ErrInvalidNaturalNumber)
			return
		}
		engine.PushToStack(st, out)
	})

	s.register(opcode.OP_BIN2NUM, func(st *engine.State, inst instruction.Instruction) {
		data, ok := engine.PopOne(st)
		if !ok {
			return
		}
		v, err := scriptnum.Decode(data, false, binaryNumMaxLen)
		if err != nil {
			st.Fail(engine.ErrInvalidNaturalNumber)
			return
		}
		engine.PushToStack(st, scriptnum.Encode(v))
	})

	s.register(opcode.OP_SIZE, func(st *engine.State, inst instruction.Instruction) {
		top, ok := peekAt(st, 0)
		if !ok {
			return
		}
		engine.PushToStack(st, scriptnum.Encode(int64(len(top))))
	})
}

// numToBin re-encodes a script number as an exactly size-byte
// sign-magnitude little-endian string, preserving data's sign bit.
// It fails if data doesn't fit in size bytes.
func numToBin(data []byte, size int) ([]byte, bool) {
	if len(data) > size {
		return nil, false
	}
	if len(data) == 0 {
		return make([]byte, size), true
	}
	out := append([]byte(nil), data...)
	last := len(out) - 1
	negative := out[last]&0x80 != 0
	out[last] &^= 0x80
	for len(out) < size {
		out = append(out, 0)
	}
	if negative {
		out[size-1] |= 0x80
	} else {
		out[size-1] &^= 0x80
	}
	return out, true
}
