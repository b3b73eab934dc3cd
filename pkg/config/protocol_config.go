package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/bchscript/bchengine/pkg/config/limits"
	"github.com/bchscript/bchengine/pkg/config/netmode"
)

// ProtocolConfiguration represents the BCH consensus rules a script
// evaluation runs under: the VM bounds every handler enforces, which
// opcodes are live, and the upgrade schedule that toggles them.
type ProtocolConfiguration struct {
	Magic netmode.Magic `yaml:"Magic"`

	// MaxOperationCount is the per-script non-push operation budget.
	MaxOperationCount int `yaml:"MaxOperationCount"`
	// MaxScriptElementSize is the largest single stack element, in bytes.
	MaxScriptElementSize int `yaml:"MaxScriptElementSize"`
	// MaxStackDepth is the combined data+alt stack element budget.
	MaxStackDepth int `yaml:"MaxStackDepth"`
	// MaxMultisigPublicKeys bounds N in an M-of-N CHECKMULTISIG.
	MaxMultisigPublicKeys int `yaml:"MaxMultisigPublicKeys"`

	// RequireMinimalPush enforces BIP62-style minimal push/number encoding.
	RequireMinimalPush bool `yaml:"RequireMinimalPush"`
	// RequireBugValueZero enforces the CHECKMULTISIG protocol-bug value
	// being empty rather than merely ignored.
	RequireBugValueZero bool `yaml:"RequireBugValueZero"`
	// RequireNullSigFailures rejects a non-empty signature that fails
	// verification instead of treating it the same as a null signature.
	RequireNullSigFailures bool `yaml:"RequireNullSigFailures"`

	// Upgrades maps an upgrade name to the median-time-past (Unix
	// seconds) at which its opcode/consensus changes activate. A zero
	// or absent entry means the upgrade is not yet scheduled.
	Upgrades map[string]int64 `yaml:"Upgrades"`

	// SeedList is the set of DNS seeds/peers a node bootstraps from.
	// Carried for parity with the ambient network-configuration shape;
	// the evaluator itself never dials out.
	SeedList []string `yaml:"SeedList"`
}

// Known upgrade names, in activation order. Validate rejects any
// other key under Upgrades and enforces this ordering. Only upgrades
// that actually gate a handled opcode/flag belong here; see
// ToEvaluationOptions for what each one toggles.
const (
	Upgrade2020May = "2020-05" // OP_LSHIFT/OP_RSHIFT re-enablement
)

var knownUpgrades = []string{Upgrade2020May}

// Validate checks ProtocolConfiguration for internal consistency.
func (p *ProtocolConfiguration) Validate() error {
	if p.MaxOperationCount <= 0 {
		return errors.New("MaxOperationCount must be positive")
	}
	if p.MaxScriptElementSize <= 0 || p.MaxScriptElementSize > limits.MaxScriptElementSizeCeiling {
		return fmt.Errorf("MaxScriptElementSize must be in (0, %d]", limits.MaxScriptElementSizeCeiling)
	}
	if p.MaxStackDepth <= 0 || p.MaxStackDepth > limits.MaxStackDepthCeiling {
		return fmt.Errorf("MaxStackDepth must be in (0, %d]", limits.MaxStackDepthCeiling)
	}
	if p.MaxMultisigPublicKeys <= 0 || p.MaxMultisigPublicKeys > limits.MaxMultisigPublicKeysCeiling {
		return fmt.Errorf("MaxMultisigPublicKeys must be in (0, %d]", limits.MaxMultisigPublicKeysCeiling)
	}

	for name := range p.Upgrades {
		if !slices.Contains(knownUpgrades, name) {
			return fmt.Errorf("Upgrades configuration section contains unexpected upgrade: %s", name)
		}
	}
	var prev int64
	for _, name := range knownUpgrades {
		h, ok := p.Upgrades[name]
		if !ok || h == 0 {
			continue
		}
		if h < prev {
			return fmt.Errorf("upgrade %s has inconsistent activation time %d (earlier than a prior upgrade)", name, h)
		}
		prev = h
	}
	return nil
}

// IsUpgradeActive reports whether the named upgrade has activated by
// medianTimePast, per BIP113-style median-time-past activation.
func (p *ProtocolConfiguration) IsUpgradeActive(name string, medianTimePast int64) bool {
	h, ok := p.Upgrades[name]
	return ok && h != 0 && medianTimePast >= h
}

// Equals reports whether p and o describe the same consensus rules.
func (p *ProtocolConfiguration) Equals(o *ProtocolConfiguration) bool {
	if p.Magic != o.Magic ||
		p.MaxOperationCount != o.MaxOperationCount ||
		p.MaxScriptElementSize != o.MaxScriptElementSize ||
		p.MaxStackDepth != o.MaxStackDepth ||
		p.MaxMultisigPublicKeys != o.MaxMultisigPublicKeys ||
		p.RequireMinimalPush != o.RequireMinimalPush ||
		p.RequireBugValueZero != o.RequireBugValueZero ||
		p.RequireNullSigFailures != o.RequireNullSigFailures ||
		!slices.Equal(p.SeedList, o.SeedList) {
		return false
	}
	if len(p.Upgrades) != len(o.Upgrades) {
		return false
	}
	for k, v := range p.Upgrades {
		if o.Upgrades[k] != v {
			return false
		}
	}
	return true
}

// UpgradeNames returns the known upgrade names in activation order, for
// tooling that wants to print or iterate the schedule deterministically.
func UpgradeNames() []string {
	return slices.Clone(knownUpgrades)
}
