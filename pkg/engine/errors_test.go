package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesBareKind(t *testing.T) {
	err := &Error{Kind: ErrFailedVerify, IP: 4}

	assert.True(t, errors.Is(err, ErrFailedVerify))
	assert.False(t, errors.Is(err, ErrExceededMaximumOperationCount))
}

func TestErrorIsIgnoresIP(t *testing.T) {
	a := &Error{Kind: ErrExceededMaximumStackDepth, IP: 1}
	b := &Error{Kind: ErrExceededMaximumStackDepth, IP: 99}

	assert.True(t, errors.Is(a, b))
}
