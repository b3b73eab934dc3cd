package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/bchscript/bchengine/config"
	"github.com/bchscript/bchengine/pkg/config/netmode"
	"github.com/bchscript/bchengine/pkg/engine"
	"github.com/bchscript/bchengine/pkg/sighash"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the default path to the config directory.
const DefaultConfigPath = "./config"

// Config is the top-level configuration for a standalone evaluator
// process: which network's consensus rules to run under, and how the
// process itself behaves.
type Config struct {
	ProtocolConfiguration    ProtocolConfiguration    `yaml:"ProtocolConfiguration"`
	ApplicationConfiguration ApplicationConfiguration `yaml:"ApplicationConfiguration"`
}

// Load attempts to load the config from the given path for the given
// network.
func Load(path string, netMode netmode.Magic) (Config, error) {
	configPath := fmt.Sprintf("%s/protocol.%s.yml", path, netMode)
	return LoadFile(configPath)
}

// LoadFile loads config from the provided path, falling back to the
// embedded default for that network if the file doesn't exist on disk.
func LoadFile(configPath string) (Config, error) {
	var (
		configData []byte
		err        error
	)
	if _, err = os.Stat(configPath); os.IsNotExist(err) {
		configData, err = getEmbeddedConfig(configPath)
		if err != nil {
			return Config{}, err
		}
	} else {
		configData, err = os.ReadFile(configPath)
		if err != nil {
			return Config{}, fmt.Errorf("unable to read config: %w", err)
		}
	}

	cfg := Config{}
	decoder := yaml.NewDecoder(bytes.NewReader(configData))
	decoder.KnownFields(true)
	if err = decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	if err = cfg.ProtocolConfiguration.Validate(); err != nil {
		return Config{}, err
	}
	if err = cfg.ApplicationConfiguration.Logger.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid logger config: %w", err)
	}
	return cfg, nil
}

func getEmbeddedConfig(configPath string) ([]byte, error) {
	switch configPath {
	case fmt.Sprintf("%s/protocol.%s.yml", DefaultConfigPath, netmode.MainNet):
		return config.MainNet, nil
	case fmt.Sprintf("%s/protocol.%s.yml", DefaultConfigPath, netmode.TestNet3):
		return config.TestNet3, nil
	case fmt.Sprintf("%s/protocol.%s.yml", DefaultConfigPath, netmode.RegTest):
		return config.RegTest, nil
	case fmt.Sprintf("%s/protocol.%s.yml", DefaultConfigPath, netmode.ChipNet):
		return config.ChipNet, nil
	default:
		return nil, fmt.Errorf("config '%s' doesn't exist and no matching embedded config was found", configPath)
	}
}

// ToEvaluationOptions builds the engine bounds and opcode-era flags a
// script evaluation enforces from this protocol configuration, as of
// medianTimePast.
func (p *ProtocolConfiguration) ToEvaluationOptions(medianTimePast int64) engine.EvaluationOptions {
	opts := engine.DefaultOptions()
	opts.MaxOperationCount = p.MaxOperationCount
	opts.MaxScriptElementSize = p.MaxScriptElementSize
	opts.MaxStackDepth = p.MaxStackDepth
	opts.MaxMultisigPublicKeys = p.MaxMultisigPublicKeys
	opts.RequireMinimalPush = p.RequireMinimalPush
	opts.RequireBugValueZero = p.RequireBugValueZero
	opts.RequireNullSigFailures = p.RequireNullSigFailures
	opts.EnableLShift = p.IsUpgradeActive(Upgrade2020May, medianTimePast)
	opts.EnableRShift = opts.EnableLShift
	return opts
}

// NewMidstateCache builds the sighash midstate cache sized per the
// application configuration, ready to attach to EvaluationOptions.Midstate.
func (a *ApplicationConfiguration) NewMidstateCache() (*sighash.MidstateCache, error) {
	return sighash.NewMidstateCache(a.MidstateCacheSize)
}
