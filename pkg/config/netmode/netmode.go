// Package netmode identifies which BCH network an evaluation's
// consensus rules are drawn from.
package netmode

import "strconv"

const (
	// MainNet is the production Bitcoin Cash network.
	MainNet Magic = 0xe8f3e1e3
	// TestNet3 is the long-running BCH test network.
	TestNet3 Magic = 0xf4f3e5f4
	// RegTest is a locally-controlled network used for deterministic
	// test fixtures: no proof-of-work, every upgrade active from genesis.
	RegTest Magic = 0xfabfb5da
	// ChipNet previews opcode/consensus changes ahead of a scheduled
	// network upgrade.
	ChipNet Magic = 0xafcf4b27
)

// Magic is the network's message-header magic value, doubling as the
// network selector for consensus-parameter lookup.
type Magic uint32

// String implements the stringer interface.
func (n Magic) String() string {
	switch n {
	case MainNet:
		return "mainnet"
	case TestNet3:
		return "testnet3"
	case RegTest:
		return "regtest"
	case ChipNet:
		return "chipnet"
	default:
		return "net 0x" + strconv.FormatUint(uint64(n), 16)
	}
}
