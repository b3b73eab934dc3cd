package main

import (
	"encoding/hex"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/bchscript/bchengine/pkg/engine"
	"github.com/bchscript/bchengine/pkg/engine/bch"
	"github.com/bchscript/bchengine/pkg/instruction"
	"github.com/bchscript/bchengine/pkg/metrics"
	"github.com/bchscript/bchengine/pkg/txcontext"
)

// Various errors reported to the REPL user.
var (
	ErrMissingParameter = errors.New("missing argument")
	ErrInvalidParameter = errors.New("can't parse argument")
	ErrNoProgramLoaded  = errors.New("no program loaded; use loadhex first")
)

// session holds the one program/state pair a REPL instance steps
// through. program is retained so reset can rebuild a fresh state
// without the caller re-entering the script.
type session struct {
	ops *bch.InstructionSet
	log *zap.SugaredLogger

	program *engine.Program
	state   *engine.State

	breakpoints map[int]bool
}

// newSession builds a session that traces every step to log (at debug
// level) and counts executed opcodes and evaluation duration into the
// package-level Prometheus collectors.
func newSession(log *zap.Logger) *session {
	return &session{
		ops:         bch.New(),
		log:         log.Sugar(),
		breakpoints: make(map[int]bool),
	}
}

// load parses unlockingHex (optional) and lockingHex into a single
// instruction sequence and resets the session to its initial state,
// with ScriptCodeStart positioned after the unlocking script so the
// covered bytecode a signature check signs never includes it.
func (s *session) load(unlockingHex, lockingHex string, ctx *txcontext.Context) error {
	var unlocking []instruction.Instruction
	if unlockingHex != "" {
		raw, err := hex.DecodeString(unlockingHex)
		if err != nil {
			return fmt.Errorf("%w: unlocking script: %s", ErrInvalidParameter, err)
		}
		unlocking = instruction.Parse(raw)
	}

	rawLocking, err := hex.DecodeString(lockingHex)
	if err != nil {
		return fmt.Errorf("%w: locking script: %s", ErrInvalidParameter, err)
	}
	locking := instruction.Parse(rawLocking)

	opts := engine.DefaultOptions()
	opts.Trace = s.log
	opts.OpCounter = metrics.OpcodesExecuted
	opts.Duration = metrics.EvaluationDuration

	p := engine.Program{
		Instructions:    append(append([]instruction.Instruction(nil), unlocking...), locking...),
		Context:         ctx,
		Options:         opts,
		ScriptCodeStart: len(unlocking),
	}
	s.program = &p
	s.reset()
	return nil
}

// reset rebuilds the state from the currently loaded program, discarding
// any progress made so far, and clears breakpoints left over from a
// previous script.
func (s *session) reset() {
	if s.program == nil {
		return
	}
	s.state = engine.NewState(*s.program)
	s.breakpoints = make(map[int]bool)
}

func (s *session) ready() bool {
	return s.state != nil
}

// stepN applies up to n instructions, stopping early on termination or
// on landing on a breakpoint that isn't the instruction just left.
func (s *session) stepN(n int) {
	for i := 0; i < n && s.state.Continue(); i++ {
		s.state = engine.StateStepMutate(s.state, s.ops)
		if s.breakpoints[s.state.IP] {
			break
		}
	}
}

// runToStop steps until the state halts (error or exhausted
// instructions) or lands on a breakpoint.
func (s *session) runToStop() {
	for s.state.Continue() {
		s.state = engine.StateStepMutate(s.state, s.ops)
		if s.breakpoints[s.state.IP] {
			break
		}
	}
}

// verified reports whether the loaded program, as currently evaluated,
// satisfies the instruction set's terminal success predicate.
func (s *session) verified() bool {
	return s.ops.Verify(s.state)
}
