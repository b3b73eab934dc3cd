package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bchscript/bchengine/pkg/txcontext"
)

func TestLoadAndRunArithmeticScript(t *testing.T) {
	s := newSession(zap.NewNop())
	// OP_1 OP_1 OP_ADD OP_2 OP_EQUAL: (1+1) == 2.
	require.NoError(t, s.load("", "5151935287", &txcontext.Context{}))
	require.True(t, s.ready())

	s.runToStop()
	require.NoError(t, s.state.Err)
	assert.True(t, s.verified())
	assert.Equal(t, 5, s.state.IP)
}

func TestStepNStopsAtBreakpoint(t *testing.T) {
	s := newSession(zap.NewNop())
	require.NoError(t, s.load("", "5151935287", &txcontext.Context{}))
	s.breakpoints[2] = true

	s.stepN(10)
	assert.Equal(t, 2, s.state.IP)
	assert.True(t, s.state.Continue())
}

func TestResetRestoresInitialState(t *testing.T) {
	s := newSession(zap.NewNop())
	require.NoError(t, s.load("", "5151935287", &txcontext.Context{}))
	s.stepN(3)
	require.NotEqual(t, 0, s.state.IP)

	s.reset()
	assert.Equal(t, 0, s.state.IP)
	assert.Empty(t, s.breakpoints)
}

func TestLoadRejectsInvalidHex(t *testing.T) {
	s := newSession(zap.NewNop())
	err := s.load("", "zz", &txcontext.Context{})
	require.Error(t, err)
}
