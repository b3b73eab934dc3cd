// Package txcontext holds the flat, already-serialized transaction
// fields a BCH script evaluation needs: everything C4's signing
// serialization concatenates, plus the fields opcodes like
// OP_CHECKLOCKTIMEVERIFY compare against.
package txcontext

import "github.com/bchscript/bchengine/pkg/instruction"

// Context is the per-evaluation transaction record a script
// evaluation needs. All byte-slice fields are already serialized in
// wire format by the caller; the VM never parses a transaction itself.
type Context struct {
	Version                    uint32
	TransactionOutpoints       []byte // concatenated 36-byte outpoints of all inputs
	TransactionSequenceNumbers []byte // concatenated 4-byte LE sequence numbers
	OutpointTransactionHash    [32]byte
	OutpointIndex              uint32
	OutputValue                uint64
	SequenceNumber             uint32
	CorrespondingOutput        []byte // serialized output at this input's index, if any
	TransactionOutputs         []byte // concatenated serialized outputs
	Locktime                   uint32
}

// CoveredBytecode derives the signing serialization's scriptCode: the
// currently-executing instruction sequence re-serialized starting
// immediately after the last OP_CODESEPARATOR (or from the start, if
// none has executed).
func CoveredBytecode(instructions []instruction.Instruction, lastCodeSeparator int) []byte {
	start := 0
	if lastCodeSeparator >= 0 {
		start = lastCodeSeparator + 1
	}
	if start > len(instructions) {
		start = len(instructions)
	}
	return instruction.Serialize(instructions[start:])
}

// LocktimeThreshold is the boundary between block-height and
// block-timestamp interpretations of a locktime/sequence value, per
// BIP65/BIP113.
const LocktimeThreshold = 500000000
