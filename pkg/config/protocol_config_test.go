package config

import (
	"testing"

	"github.com/bchscript/bchengine/pkg/config/netmode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProtocolConfig() ProtocolConfiguration {
	return ProtocolConfiguration{
		Magic:                  netmode.RegTest,
		MaxOperationCount:      201,
		MaxScriptElementSize:   520,
		MaxStackDepth:          1000,
		MaxMultisigPublicKeys:  20,
		RequireMinimalPush:     true,
		RequireBugValueZero:    true,
		RequireNullSigFailures: true,
		Upgrades: map[string]int64{
			Upgrade2020May: 100,
		},
	}
}

func TestProtocolConfigurationValidation(t *testing.T) {
	p := validProtocolConfig()
	require.NoError(t, p.Validate())

	bad := validProtocolConfig()
	bad.MaxOperationCount = 0
	require.Error(t, bad.Validate())

	bad = validProtocolConfig()
	bad.MaxScriptElementSize = 9999
	require.Error(t, bad.Validate())

	bad = validProtocolConfig()
	bad.MaxMultisigPublicKeys = 21
	require.Error(t, bad.Validate())

	bad = validProtocolConfig()
	bad.Upgrades = map[string]int64{"not-a-real-upgrade": 5}
	require.Error(t, bad.Validate())
}

func TestIsUpgradeActive(t *testing.T) {
	p := validProtocolConfig()
	assert.True(t, p.IsUpgradeActive(Upgrade2020May, 100))
	assert.True(t, p.IsUpgradeActive(Upgrade2020May, 150))
	assert.False(t, p.IsUpgradeActive(Upgrade2020May, 99))
	assert.False(t, p.IsUpgradeActive("not-a-real-upgrade", 1000)) // never scheduled
}

func TestProtocolConfigurationEquals(t *testing.T) {
	a := validProtocolConfig()
	o := validProtocolConfig()
	assert.True(t, a.Equals(&o))

	o.MaxOperationCount = 1
	assert.False(t, a.Equals(&o))
}

func TestUpgradeNames(t *testing.T) {
	names := UpgradeNames()
	assert.Equal(t, []string{Upgrade2020May}, names)
}
