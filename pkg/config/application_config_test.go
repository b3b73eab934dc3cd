package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplicationConfigurationEquals(t *testing.T) {
	a := &ApplicationConfiguration{MidstateCacheSize: 256, InstructionCacheSize: 1024}
	o := &ApplicationConfiguration{MidstateCacheSize: 256, InstructionCacheSize: 1024}
	assert.True(t, a.Equals(o))

	o.MidstateCacheSize = 64
	assert.False(t, a.Equals(o))
}

func TestBasicServiceEqual(t *testing.T) {
	a := BasicService{Enabled: true, Addresses: []string{"localhost:6060"}}
	o := BasicService{Enabled: true, Addresses: []string{"localhost:6060"}}
	assert.True(t, basicServiceEqual(a, o))

	o.Addresses = []string{"localhost:6061"}
	assert.False(t, basicServiceEqual(a, o))
}
