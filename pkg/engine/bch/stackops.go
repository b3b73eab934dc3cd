package bch

import (
	"github.com/bchscript/bchengine/pkg/engine"
	"github.com/bchscript/bchengine/pkg/instruction"
	"github.com/bchscript/bchengine/pkg/opcode"
	"github.com/bchscript/bchengine/pkg/scriptnum"
)

// peekAt returns the element distance positions below the top (0 =
// top) without removing it.
func peekAt(st *engine.State, distance int) ([]byte, bool) {
	elem, ok := st.Stack.Peek(distance)
	if !ok {
		st.Fail(engine.ErrInvalidStackIndex)
		return nil, false
	}
	return elem, true
}

// removeAt removes and returns the element distance positions below
// the top.
func removeAt(st *engine.State, distance int) ([]byte, bool) {
	idx := len(st.Stack) - 1 - distance
	if idx < 0 || idx >= len(st.Stack) {
		st.Fail(engine.ErrInvalidStackIndex)
		return nil, false
	}
	elem := st.Stack[idx]
	st.Stack = append(st.Stack[:idx], st.Stack[idx+1:]...)
	return elem, true
}

// insertAt inserts elem so it occupies absolute index idx, shifting
// everything from idx up by one.
func insertAt(st *engine.State, idx int, elem []byte) {
	st.Stack = append(st.Stack, nil)
	copy(st.Stack[idx+1:], st.Stack[idx:])
	st.Stack[idx] = elem
}

func requireDepth(st *engine.State, n int) bool {
	if len(st.Stack) < n {
		st.Fail(engine.ErrInvalidStackIndex)
		return false
	}
	return true
}

func (s *InstructionSet) registerStack() {
	s.register(opcode.OP_TOALTSTACK, func(st *engine.State, inst instruction.Instruction) {
		v, ok := engine.PopOne(st)
		if !ok {
			return
		}
		st.AltStack = append(st.AltStack, v)
	})

	s.register(opcode.OP_FROMALTSTACK, func(st *engine.State, inst instruction.Instruction) {
		n := len(st.AltStack)
		if n == 0 {
			st.Fail(engine.ErrInvalidStackIndex)
			return
		}
		v := st.AltStack[n-1]
		st.AltStack = st.AltStack[:n-1]
		engine.PushToStack(st, v)
	})

	s.register(opcode.OP_DUP, func(st *engine.State, inst instruction.Instruction) {
		top, ok := peekAt(st, 0)
		if !ok {
			return
		}
		engine.PushToStack(st, top)
	})

	s.register(opcode.OP_DROP, func(st *engine.State, inst instruction.Instruction) {
		engine.PopOne(st)
	})

	s.register(opcode.OP_NIP, func(st *engine.State, inst instruction.Instruction) {
		removeAt(st, 1)
	})

	s.register(opcode.OP_OVER, func(st *engine.State, inst instruction.Instruction) {
		item, ok := peekAt(st, 1)
		if !ok {
			return
		}
		engine.PushToStack(st, item)
	})

	s.register(opcode.OP_SWAP, func(st *engine.State, inst instruction.Instruction) {
		item, ok := removeAt(st, 1)
		if !ok {
			return
		}
		engine.PushToStack(st, item)
	})

	s.register(opcode.OP_ROT, func(st *engine.State, inst instruction.Instruction) {
		item, ok := removeAt(st, 2)
		if !ok {
			return
		}
		engine.PushToStack(st, item)
	})

	s.register(opcode.OP_TUCK, func(st *engine.State, inst instruction.Instruction) {
		if !requireDepth(st, 2) {
			return
		}
		top := st.Stack[len(st.Stack)-1]
		insertAt(st, len(st.Stack)-2, top)
	})

	s.register(opcode.OP_IFDUP, func(st *engine.State, inst instruction.Instruction) {
		top, ok := peekAt(st, 0)
		if !ok {
			return
		}
		if scriptnum.Bool(top) {
			engine.PushToStack(st, top)
		}
	})

	s.register(opcode.OP_DEPTH, func(st *engine.State, inst instruction.Instruction) {
		engine.PushToStack(st, scriptnum.Encode(int64(len(st.Stack))))
	})

	s.register(opcode.OP_PICK, func(st *engine.State, inst instruction.Instruction) {
		n, ok := engine.PopScriptNumber(st, st.Options.RequireMinimalPush)
		if !ok {
			return
		}
		if n < 0 {
			st.Fail(engine.ErrInvalidStackIndex)
			return
		}
		item, ok := peekAt(st, int(n))
		if !ok {
			return
		}
		engine.PushToStack(st, item)
	})

	s.register(opcode.OP_ROLL, func(st *engine.State, inst instruction.Instruction) {
		n, ok := engine.PopScriptNumber(st, st.Options.RequireMinimalPush)
		if !ok {
			return
		}
		if n < 0 {
			st.Fail(engine.ErrInvalidStackIndex)
			return
		}
		item, ok := removeAt(st, int(n))
		if !ok {
			return
		}
		engine.PushToStack(st, item)
	})

	s.register(opcode.OP_2DROP, func(st *engine.State, inst instruction.Instruction) {
		engine.PopTwo(st)
	})

	s.register(opcode.OP_2DUP, func(st *engine.State, inst instruction.Instruction) {
		if !requireDepth(st, 2) {
			return
		}
		a, _ := peekAt(st, 1)
		b, _ := peekAt(st, 0)
		engine.PushToStack(st, a)
		engine.PushToStack(st, b)
	})

	s.register(opcode.OP_3DUP, func(st *engine.State, inst instruction.Instruction) {
		if !requireDepth(st, 3) {
			return
		}
		a, _ := peekAt(st, 2)
		b, _ := peekAt(st, 1)
		c, _ := peekAt(st, 0)
		engine.PushToStack(st, a)
		engine.PushToStack(st, b)
		engine.PushToStack(st, c)
	})

	s.register(opcode.OP_2OVER, func(st *engine.State, inst instruction.Instruction) {
		if !requireDepth(st, 4) {
			return
		}
		a, _ := peekAt(st, 3)
		b, _ := peekAt(st, 2)
		engine.PushToStack(st, a)
		engine.PushToStack(st, b)
	})

	s.register(opcode.OP_2ROT, func(st *engine.State, inst instruction.Instruction) {
		if !requireDepth(st, 6) {
			return
		}
		a, ok := removeAt(st, 5)
		if !ok {
			return
		}
		b, ok := removeAt(st, 4)
		if !ok {
			return
		}
		engine.PushToStack(st, a)
		engine.PushToStack(st, b)
	})

	s.register(opcode.OP_2SWAP, func(st *engine.State, inst instruction.Instruction) {
		if !requireDepth(st, 4) {
			return
		}
		a, ok := removeAt(st, 3)
		if !ok {
			return
		}
		b, ok := removeAt(st, 2)
		if !ok {
			return
		}
		engine.PushToStack(st, a)
		engine.PushToStack(st, b)
	})
}
