package engine

import "fmt"

// ErrorKind names one of the closed set of terminal failures a script
// evaluation can end in. Once a state carries one, every subsequent
// step is a no-op.
type ErrorKind string

// The full set of terminal error kinds a conforming evaluation can
// produce.
const (
	ErrMalformedPush                    ErrorKind = "malformedPush"
	ErrUnbalancedConditional             ErrorKind = "unbalancedConditional"
	ErrEmptyStack                        ErrorKind = "emptyStack"
	ErrInvalidStackIndex                 ErrorKind = "invalidStackIndex"
	ErrExceededMaximumStackDepth         ErrorKind = "exceededMaximumStackDepth"
	ErrExceededMaximumOperationCount     ErrorKind = "exceededMaximumOperationCount"
	ErrExceededMaximumOpcode             ErrorKind = "exceededMaximumOpcode"
	ErrExceededMaximumElementSize        ErrorKind = "exceededMaximumElementSize"
	ErrDisabledOpcode                    ErrorKind = "disabledOpcode"
	ErrUnknownOpcode                     ErrorKind = "unknownOpcode"
	ErrInvalidNaturalNumber              ErrorKind = "invalidNaturalNumber"
	ErrNonMinimallyEncodedScriptNumber   ErrorKind = "nonMinimallyEncodedScriptNumber"
	ErrExceedsMaximumMultisigPublicKeys  ErrorKind = "exceedsMaximumMultisigPublicKeyCount"
	ErrInsufficientPublicKeys            ErrorKind = "insufficientPublicKeys"
	ErrInvalidProtocolBugValue           ErrorKind = "invalidProtocolBugValue"
	ErrInvalidPublicKeyEncoding          ErrorKind = "invalidPublicKeyEncoding"
	ErrInvalidSignatureEncoding          ErrorKind = "invalidSignatureEncoding"
	ErrSchnorrSizedSignatureInCheckMulti ErrorKind = "schnorrSizedSignatureInCheckMultiSig"
	ErrNonNullSignatureFailure           ErrorKind = "nonNullSignatureFailure"
	ErrUnsatisfiedLocktime               ErrorKind = "unsatisfiedLocktime"
	ErrUnsatisfiedSequenceNumber         ErrorKind = "unsatisfiedSequenceNumber"
	ErrFailedVerify                      ErrorKind = "failedVerify"
	ErrCalledReturn                      ErrorKind = "calledReturn"
)

// Error implements the error interface so a bare ErrorKind constant
// (e.g. engine.ErrFailedVerify) can be passed directly as the target
// of errors.Is.
func (k ErrorKind) Error() string {
	return string(k)
}

// Error is the value stored in a State once evaluation has
// terminated abnormally. IP is the instruction pointer at the point
// of failure (the index of the instruction that raised it, not the
// advanced pointer).
type Error struct {
	Kind ErrorKind
	IP   int
}

func (e *Error) Error() string {
	return fmt.Sprintf("engine: %s at ip=%d", e.Kind, e.IP)
}

// Is lets errors.Is(state.Err, engine.ErrFailedVerify) compare
// against a bare ErrorKind constant, and errors.Is(a, b) compare two
// *Error values by Kind alone, ignoring IP.
func (e *Error) Is(target error) bool {
	if k, ok := target.(ErrorKind); ok {
		return e.Kind == k
	}
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
