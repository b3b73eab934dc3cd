package bch

import (
	"github.com/bchscript/bchengine/pkg/engine"
	"github.com/bchscript/bchengine/pkg/instruction"
	"github.com/bchscript/bchengine/pkg/opcode"
	"github.com/bchscript/bchengine/pkg/scriptnum"
)

func (s *InstructionSet) registerFlow() {
	s.register(opcode.OP_NOP, func(st *engine.State, inst instruction.Instruction) {})

	s.register(opcode.OP_IF, conditionalPush(false))
	s.register(opcode.OP_NOTIF, conditionalPush(true))

	s.register(opcode.OP_ELSE, func(st *engine.State, inst instruction.Instruction) {
		n := len(st.ExecutionStack)
		if n == 0 {
			st.Fail(engine.ErrUnbalancedConditional)
			return
		}
		st.ExecutionStack[n-1] = !st.ExecutionStack[n-1]
	})

	s.register(opcode.OP_ENDIF, func(st *engine.State, inst instruction.Instruction) {
		n := len(st.ExecutionStack)
		if n == 0 {
			st.Fail(engine.ErrUnbalancedConditional)
			return
		}
		st.ExecutionStack = st.ExecutionStack[:n-1]
	})

	s.register(opcode.OP_VERIFY, func(st *engine.State, inst instruction.Instruction) {
		v, ok := engine.PopOne(st)
		if !ok {
			return
		}
		if !scriptnum.Bool(v) {
			st.Fail(engine.ErrFailedVerify)
		}
	})

	s.register(opcode.OP_RETURN, func(st *engine.State, inst instruction.Instruction) {
		st.Fail(engine.ErrCalledReturn)
	})
}

// conditionalPush implements OP_IF (negate=false) and OP_NOTIF
// (negate=true): while the surrounding branch is live, pop and
// interpret the top of stack; while it is dead, push an untaken
// placeholder so OP_ELSE/OP_ENDIF nesting still balances.
func conditionalPush(negate bool) engine.Handler {
	return func(st *engine.State, inst instruction.Instruction) {
		if !st.Executing() {
			st.ExecutionStack = append(st.ExecutionStack, false)
			return
		}
		v, ok := engine.PopOne(st)
		if !ok {
			return
		}
		taken := scriptnum.Bool(v)
		if negate {
			taken = !taken
		}
		st.ExecutionStack = append(st.ExecutionStack, taken)
	}
}
