package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/bchscript/bchengine/config"
	"github.com/bchscript/bchengine/pkg/config/netmode"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestUnknownConfigFields(t *testing.T) {
	tmp := t.TempDir()
	cfg := filepath.Join(tmp, "protocol.regtest.yml")
	require.NoError(t, os.WriteFile(cfg, []byte(`UnknownConfigurationField: 123`), os.ModePerm))

	t.Run("LoadFile", func(t *testing.T) {
		_, err := LoadFile(cfg)
		require.Error(t, err)
		require.Contains(t, err.Error(), "UnknownConfigurationField")
	})
	t.Run("Load", func(t *testing.T) {
		_, err := Load(tmp, netmode.RegTest)
		require.Error(t, err)
		require.Contains(t, err.Error(), "UnknownConfigurationField")
	})
}

func TestLoadFileWithMissingDefaultConfigPath(t *testing.T) {
	var fromEmbed Config
	cfg, err := LoadFile(fmt.Sprintf("%s/protocol.%s.yml", DefaultConfigPath, netmode.RegTest))
	require.NoError(t, err)

	decoder := yaml.NewDecoder(bytes.NewReader(config.RegTest))
	require.NoError(t, decoder.Decode(&fromEmbed))
	require.Equal(t, cfg, fromEmbed)

	_, err = LoadFile(fmt.Sprintf("%s/protocol.%s.yml", os.TempDir(), netmode.RegTest))
	require.Error(t, err)
	require.Contains(t, err.Error(), "doesn't exist and no matching embedded config was found")

	_, err = LoadFile(fmt.Sprintf("%s/protocol.%s.yml", DefaultConfigPath, "aaa"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "doesn't exist and no matching embedded config was found")
}

func TestLoadRealConfigs(t *testing.T) {
	for _, mode := range []netmode.Magic{netmode.MainNet, netmode.TestNet3, netmode.RegTest, netmode.ChipNet} {
		cfg, err := Load(filepath.Join("..", "..", "config"), mode)
		require.NoError(t, err, mode)
		require.Equal(t, mode, cfg.ProtocolConfiguration.Magic)
	}
}
