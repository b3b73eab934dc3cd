package engine

import (
	"github.com/bchscript/bchengine/pkg/instruction"
	"github.com/bchscript/bchengine/pkg/scriptnum"
)

// PopOne removes and returns the top data-stack element. It fails
// with ErrEmptyStack rather than panicking on an empty stack.
func PopOne(st *State) ([]byte, bool) {
	n := len(st.Stack)
	if n == 0 {
		st.Fail(ErrEmptyStack)
		return nil, false
	}
	elem := st.Stack[n-1]
	st.Stack = st.Stack[:n-1]
	return elem, true
}

// PopTwo removes and returns the top two data-stack elements as
// (second-from-top, top).
func PopTwo(st *State) (below, top []byte, ok bool) {
	if len(st.Stack) < 2 {
		st.Fail(ErrEmptyStack)
		return nil, nil, false
	}
	top, ok = PopOne(st)
	if !ok {
		return nil, nil, false
	}
	below, ok = PopOne(st)
	if !ok {
		return nil, nil, false
	}
	return below, top, true
}

// PopScriptNumber pops the top element and decodes it as a script
// number, enforcing minimal encoding when requireMinimal is set.
func PopScriptNumber(st *State, requireMinimal bool) (int64, bool) {
	elem, ok := PopOne(st)
	if !ok {
		return 0, false
	}
	v, err := scriptnum.Decode(elem, requireMinimal, scriptnum.DefaultMaxLen)
	if err != nil {
		if err == scriptnum.ErrNotMinimal {
			st.Fail(ErrNonMinimallyEncodedScriptNumber)
		} else {
			st.Fail(ErrInvalidNaturalNumber)
		}
		return 0, false
	}
	return v, true
}

// PushToStack appends elem to the data stack, enforcing the
// per-element size cap and the combined data+alt stack depth cap.
func PushToStack(st *State, elem []byte) bool {
	if len(elem) > st.Options.MaxScriptElementSize {
		st.Fail(ErrExceededMaximumElementSize)
		return false
	}
	if len(st.Stack)+len(st.AltStack)+1 > st.Options.MaxStackDepth {
		st.Fail(ErrExceededMaximumStackDepth)
		return false
	}
	st.Stack = append(st.Stack, elem)
	return true
}

// CombineOperations sequentially composes f then g into a single
// handler, short-circuiting g if f left an error set.
func CombineOperations(f, g Handler) Handler {
	return func(st *State, inst instruction.Instruction) {
		f(st, inst)
		if st.Err != nil {
			return
		}
		g(st, inst)
	}
}
