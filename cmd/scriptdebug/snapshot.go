package main

import (
	"encoding/hex"

	ojson "github.com/nspcc-dev/go-ordered-json"

	"github.com/bchscript/bchengine/pkg/engine"
)

// snapshot is the JSON-serializable view of a *engine.State the dump
// command prints. Field order is fixed by declaration order and
// preserved on the wire by go-ordered-json, so two dumps of the same
// state always render byte-identical.
type snapshot struct {
	IP                int      `json:"ip"`
	NextOpcode        string   `json:"nextOpcode,omitempty"`
	OperationCount    int      `json:"operationCount"`
	LastCodeSeparator int      `json:"lastCodeSeparator"`
	ExecutionStack    []bool   `json:"executionStack"`
	Stack             []string `json:"stack"`
	AltStack          []string `json:"altStack"`
	Error             string   `json:"error,omitempty"`
}

func hexAll(elems [][]byte) []string {
	out := make([]string, len(elems))
	for i, e := range elems {
		out[i] = hex.EncodeToString(e)
	}
	return out
}

func newSnapshot(s *engine.State) snapshot {
	snap := snapshot{
		IP:                s.IP,
		OperationCount:    s.OperationCount,
		LastCodeSeparator: s.LastCodeSeparator,
		ExecutionStack:    s.ExecutionStack,
		Stack:             hexAll(s.Stack),
		AltStack:          hexAll(s.AltStack),
	}
	if s.IP < len(s.Instructions) {
		snap.NextOpcode = s.Instructions[s.IP].Opcode.String()
	}
	if s.Err != nil {
		snap.Error = s.Err.Error()
	}
	return snap
}

func (snap snapshot) marshalIndent() (string, error) {
	b, err := ojson.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
