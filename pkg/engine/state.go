package engine

import (
	"github.com/bchscript/bchengine/pkg/instruction"
	"github.com/bchscript/bchengine/pkg/sighash"
	"github.com/bchscript/bchengine/pkg/stack"
	"github.com/bchscript/bchengine/pkg/txcontext"
	"github.com/prometheus/client_golang/prometheus"
)

// Logger is the tracing hook a step can report through. It is
// satisfied by *zap.SugaredLogger without this package importing zap;
// a nil Logger is the zero value and traces nothing.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
}

// EvaluationOptions bounds a single evaluation and toggles the
// network-era behavior the common opcode set must consult rather than
// hardcode.
type EvaluationOptions struct {
	MaxOperationCount      int
	MaxScriptElementSize   int
	MaxStackDepth          int
	MaxMultisigPublicKeys  int
	RequireMinimalPush     bool
	RequireBugValueZero    bool
	RequireNullSigFailures bool
	EnableMul              bool
	EnableLShift           bool
	EnableRShift           bool
	EnableInvert           bool
	Midstate               *sighash.MidstateCache
	TxIdentifier           string

	// Trace, OpCounter and Duration are optional observability hooks.
	// None of them is touched by the opcode handlers themselves; only
	// the generic stepper in engine.go consults them, and only when
	// non-nil, so a caller that sets none of them pays nothing beyond
	// a nil check per step.
	Trace     Logger
	OpCounter prometheus.Counter
	Duration  prometheus.Histogram
}

// DefaultOptions returns the consensus-mandated bounds with every
// network-era flag at its current-BCH-mainnet setting.
func DefaultOptions() EvaluationOptions {
	return EvaluationOptions{
		MaxOperationCount:      201,
		MaxScriptElementSize:   520,
		MaxStackDepth:          1000,
		MaxMultisigPublicKeys:  20,
		RequireMinimalPush:     true,
		RequireBugValueZero:    true,
		RequireNullSigFailures: true,
		EnableMul:              true,
		EnableLShift:           true,
		EnableRShift:           true,
		EnableInvert:           false,
	}
}

// Program bundles everything an evaluation needs to start: the parsed
// instruction sequence, the transaction context a signature check
// runs against, and the bounds/flags to enforce.
//
// ScriptCodeStart is the index within Instructions where the currently
// signature-checked script begins. A caller evaluating an unlocking
// script concatenated with its locking script sets this to the index
// of the locking script's first instruction, so that the covered
// bytecode a signature commits to never includes the unlocking
// script that precedes it. A single-script evaluation leaves it 0.
type Program struct {
	Instructions    []instruction.Instruction
	Context         *txcontext.Context
	Options         EvaluationOptions
	ScriptCodeStart int
}

// State is a single evaluation's full mutable record. Every opcode
// handler receives a *State and may mutate it in place; once Err is
// non-nil every further step is a no-op.
type State struct {
	Instructions []instruction.Instruction
	IP           int

	Stack          stack.Stack
	AltStack       stack.Stack
	ExecutionStack []bool // one entry per open IF/NOTIF; true = branch taken

	LastCodeSeparator int
	OperationCount    int

	Context *txcontext.Context
	Options EvaluationOptions

	Err error
}

// NewState builds the initial state for a program: ip at 0, empty
// stacks, lastCodeSeparator positioned just before the signed script
// so CoveredBytecode starts there until an OP_CODESEPARATOR moves it.
func NewState(p Program) *State {
	return &State{
		Instructions:      p.Instructions,
		IP:                0,
		LastCodeSeparator: p.ScriptCodeStart - 1,
		Context:           p.Context,
		Options:           p.Options,
	}
}

// Clone deep-copies s: fresh stack backing arrays (with independently
// owned element bytes) and a fresh execution-stack slice, so mutating
// the clone never touches s.
func (s *State) Clone() *State {
	c := *s
	c.Stack = s.Stack.Clone()
	c.AltStack = s.AltStack.Clone()
	c.ExecutionStack = append([]bool(nil), s.ExecutionStack...)
	return &c
}

// Continue reports whether the state has neither errored nor run off
// the end of the instruction sequence.
func (s *State) Continue() bool {
	return s.Err == nil && s.IP < len(s.Instructions)
}

// Executing reports whether the current conditional nesting allows
// side-effecting opcodes to run: every open IF/NOTIF branch must have
// been taken.
func (s *State) Executing() bool {
	for _, taken := range s.ExecutionStack {
		if !taken {
			return false
		}
	}
	return true
}

// Fail sets s.Err to kind at the instruction that just ran, if no
// error has been set yet. Later calls are no-ops, matching the
// first-error-wins rule.
func (s *State) Fail(kind ErrorKind) {
	if s.Err != nil {
		return
	}
	s.Err = &Error{Kind: kind, IP: s.IP - 1}
}

// finalize runs once execution has consumed the final instruction: an
// open conditional at end of script is itself a fault.
func (s *State) finalize() {
	if s.Err == nil && s.IP >= len(s.Instructions) && len(s.ExecutionStack) != 0 {
		s.Fail(ErrUnbalancedConditional)
	}
}
