// Package config contains embedded YAML configuration files for the
// Bitcoin Cash networks this engine ships consensus defaults for.
package config

import (
	_ "embed"
)

// MainNet is the BCH mainnet configuration.
//
//go:embed protocol.mainnet.yml
var MainNet []byte

// TestNet3 is the BCH testnet3 configuration.
//
//go:embed protocol.testnet3.yml
var TestNet3 []byte

// RegTest is the local regression-test network configuration: every
// upgrade active from genesis, no proof-of-work.
//
//go:embed protocol.regtest.yml
var RegTest []byte

// ChipNet is the upgrade-preview network configuration.
//
//go:embed protocol.chipnet.yml
var ChipNet []byte
