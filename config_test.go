package queryengine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestConfigWithDefaultsFillsLogLevel(t *testing.T) {
	cfg := Config{}.withDefaults()
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, logrus.InfoLevel, cfg.logLevel())
}

func TestConfigLogLevelFallsBackOnUnparseable(t *testing.T) {
	cfg := Config{LogLevel: "not-a-level"}
	require.Equal(t, logrus.InfoLevel, cfg.logLevel())
}

func TestLoadConfigParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "max_rows: 50\nlog_level: debug\ndeterministic_order: true\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 50, cfg.MaxRows)
	require.Equal(t, "debug", cfg.LogLevel)
	require.True(t, cfg.DeterministicOrder)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
