package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/bchscript/bchengine/pkg/engine"
	"github.com/bchscript/bchengine/pkg/engine/bch"
	"github.com/bchscript/bchengine/pkg/instruction"
	"github.com/bchscript/bchengine/pkg/opcode"
)

func TestRegisterAndCountOpcodes(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))

	before := testutil.ToFloat64(OpcodesExecuted)

	opts := engine.DefaultOptions()
	opts.OpCounter = OpcodesExecuted
	opts.Duration = EvaluationDuration
	p := engine.Program{
		Instructions: []instruction.Instruction{
			{Opcode: opcode.OP_1},
			{Opcode: opcode.OP_1},
			{Opcode: opcode.OP_EQUAL},
		},
		Options: opts,
	}

	final := engine.Evaluate(p, bch.New())
	require.NoError(t, final.Err)

	after := testutil.ToFloat64(OpcodesExecuted)
	require.Equal(t, before+3, after) // every stepped instruction counts, pushes included

	samples, err := testutil.GatherAndCount(reg, "bchengine_evaluation_duration_seconds")
	require.NoError(t, err)
	require.Equal(t, 1, samples)
}
