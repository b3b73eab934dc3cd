// Package engine implements the generic, opcode-set-agnostic stack
// machine: instruction stepping, operation-count accounting,
// conditional-nesting bookkeeping and the clone/step/evaluate/debug
// entrypoints. The concrete BCH opcode table lives in pkg/engine/bch;
// this package names only the conditional opcodes that must run inside
// untaken branches and OP_16, the boundary of the operation-count
// exemption.
package engine

import (
	"time"

	"github.com/bchscript/bchengine/pkg/instruction"
	"github.com/bchscript/bchengine/pkg/opcode"
)

// Handler executes one instruction against st, mutating it in place.
// A handler that cannot complete calls st.Fail with the appropriate
// ErrorKind; it must not panic.
type Handler func(st *State, inst instruction.Instruction)

// InstructionSet is the capability an evaluation is parameterized
// over: a lookup table from opcode to handler, a fallback for opcodes
// the table doesn't cover, and a terminal success predicate.
type InstructionSet interface {
	Operations() map[byte]Handler
	Undefined(st *State, inst instruction.Instruction)
	Verify(st *State) bool
}

// step advances s by exactly one instruction using ops, or is a no-op
// if s is not continuable.
func step(s *State, ops InstructionSet) {
	if !s.Continue() {
		return
	}

	inst := s.Instructions[s.IP]
	s.IP++

	if s.Options.Trace != nil {
		s.Options.Trace.Debugw("step", "ip", s.IP-1, "opcode", inst.Opcode.String(), "stackDepth", len(s.Stack))
	}
	if s.Options.OpCounter != nil {
		s.Options.OpCounter.Inc()
	}

	executes := s.Executing() || isFlowControlOpcode(inst.Opcode)
	if executes {
		if countsTowardOperationLimit(inst.Opcode) {
			s.OperationCount++
			if s.OperationCount > s.Options.MaxOperationCount {
				s.Fail(ErrExceededMaximumOperationCount)
				s.finalize()
				return
			}
		}

		handler, ok := ops.Operations()[byte(inst.Opcode)]
		if !ok {
			ops.Undefined(s, inst)
		} else {
			handler(s, inst)
		}
	}

	s.finalize()
}

// isFlowControlOpcode reports whether op must run (to track
// conditional nesting) even while the surrounding branch is not being
// taken. OP_VERIF/OP_VERNOTIF are included even though they never
// push or pop: script never "fast-forwards" over them, so they must
// still reach the opcode table and fail, dead branch or not.
func isFlowControlOpcode(op opcode.Opcode) bool {
	switch op {
	case opcode.OP_IF, opcode.OP_NOTIF, opcode.OP_ELSE, opcode.OP_ENDIF,
		opcode.OP_VERIF, opcode.OP_VERNOTIF:
		return true
	default:
		return false
	}
}

// countsTowardOperationLimit reports whether op is charged against the
// 201 non-push operation cap. Every constant-pushing opcode (literal
// pushes, PUSHDATA1/2/4, OP_1NEGATE, OP_1..OP_16) is exempt, matching
// consensus: only opcodes above OP_16 count.
func countsTowardOperationLimit(op opcode.Opcode) bool {
	return op > opcode.OP_16
}

// StateStepMutate applies one instruction to s in place and returns
// it: the hot path used by real validation.
func StateStepMutate(s *State, ops InstructionSet) *State {
	step(s, ops)
	return s
}

// StateStep applies one instruction to a clone of s, leaving s
// untouched, and returns the clone.
func StateStep(s *State, ops InstructionSet) *State {
	c := s.Clone()
	step(c, ops)
	return c
}

// StateEvaluate runs s to termination without mutating the caller's
// reference: a private clone absorbs every step. If Options.Duration
// is set, the wall-clock time this evaluation took is observed into it.
func StateEvaluate(s *State, ops InstructionSet) *State {
	start := time.Now()
	c := s.Clone()
	for c.Continue() {
		step(c, ops)
	}
	if c.Options.Duration != nil {
		c.Options.Duration.Observe(time.Since(start).Seconds())
	}
	return c
}

// StateDebug runs s to termination, returning one deep-copied entry
// per executed step (excluding the initial state), plus one trailing
// no-op step so the terminal state is always the last two entries:
// callers stepping a debugger one entry at a time see the VM settle
// rather than vanish.
func StateDebug(s *State, ops InstructionSet) []*State {
	c := s.Clone()
	var out []*State
	for c.Continue() {
		step(c, ops)
		out = append(out, c.Clone())
	}
	step(c, ops) // no-op: c is no longer continuable
	out = append(out, c.Clone())
	return out
}

// Evaluate initializes a state from p and runs it to termination.
func Evaluate(p Program, ops InstructionSet) *State {
	return StateEvaluate(NewState(p), ops)
}

// Debug initializes a state from p and returns its full step trace.
func Debug(p Program, ops InstructionSet) []*State {
	return StateDebug(NewState(p), ops)
}
