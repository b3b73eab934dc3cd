package bch

import (
	"github.com/bchscript/bchengine/pkg/engine"
	"github.com/bchscript/bchengine/pkg/instruction"
	"github.com/bchscript/bchengine/pkg/opcode"
	"github.com/bchscript/bchengine/pkg/scriptnum"
)

func (s *InstructionSet) registerPush() {
	literalPush := func(st *engine.State, inst instruction.Instruction) {
		if inst.Malformed {
			st.Fail(engine.ErrMalformedPush)
			return
		}
		engine.PushToStack(st, inst.Data)
	}
	for op := int(opcode.OP_0); op <= int(opcode.OP_PUSHDATA4); op++ {
		s.ops[byte(op)] = literalPush
	}

	s.register(opcode.OP_1NEGATE, func(st *engine.State, inst instruction.Instruction) {
		engine.PushToStack(st, scriptnum.Encode(-1))
	})

	for i := int64(1); i <= 16; i++ {
		v := i
		s.ops[byte(opcode.OP_1)+byte(v-1)] = func(st *engine.State, inst instruction.Instruction) {
			engine.PushToStack(st, scriptnum.Encode(v))
		}
	}
}
