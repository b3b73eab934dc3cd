package stack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDepthAndPeek(t *testing.T) {
	s := Stack{{0x01}, {0x02}, {0x03}}
	assert.Equal(t, 3, s.Depth())

	top, ok := s.Peek(0)
	assert.True(t, ok)
	assert.Equal(t, []byte{0x03}, top)

	bottom, ok := s.Peek(2)
	assert.True(t, ok)
	assert.Equal(t, []byte{0x01}, bottom)

	_, ok = s.Peek(3)
	assert.False(t, ok)
}

func TestCloneIsIndependent(t *testing.T) {
	s := Stack{{0x01, 0x02}}
	c := s.Clone()
	c[0][0] = 0xff
	assert.Equal(t, byte(0x01), s[0][0])
}
