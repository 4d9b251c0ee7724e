package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 500*time.Millisecond, cfg.Monitor.Debounce)
	assert.Equal(t, ProbeService, cfg.Probe.Mode)
	assert.True(t, cfg.UI.Cache)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromPath(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
  output: /tmp/nmnet.log
monitor:
  debounce: 250ms
probe:
  mode: http
  url: http://example.test/generate_204
  timeout: 2s
ui:
  auto_refresh: 10s
  cache: false
`)

	cfg, got, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/tmp/nmnet.log", cfg.Logging.Output)
	assert.Equal(t, 250*time.Millisecond, cfg.Monitor.Debounce)
	assert.Equal(t, ProbeHTTP, cfg.Probe.Mode)
	assert.Equal(t, "http://example.test/generate_204", cfg.Probe.URL)
	assert.Equal(t, 2*time.Second, cfg.Probe.Timeout)
	assert.Equal(t, 10*time.Second, cfg.UI.AutoRefresh)
	assert.False(t, cfg.UI.Cache)
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "monitor:\n  debounce: 0s\nprobe:\n  mode: \"\"\n")

	cfg, _, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, cfg.Monitor.Debounce)
	assert.Equal(t, ProbeService, cfg.Probe.Mode)
}

func TestLoadRejectsBadInput(t *testing.T) {
	_, _, err := LoadFromPath(writeConfig(t, "probe:\n  mode: ping\n"))
	assert.ErrorContains(t, err, "probe.mode")

	_, _, err = LoadFromPath(writeConfig(t, "monitor: [oops"))
	assert.ErrorContains(t, err, "parse config")

	_, _, err = LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "read config")
}

func TestLoadFromEnv(t *testing.T) {
	path := writeConfig(t, "monitor:\n  debounce: 1s\n")
	t.Setenv(EnvConfigPath, path)

	cfg, got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Equal(t, time.Second, cfg.Monitor.Debounce)
}

func TestFindConfigPathXDG(t *testing.T) {
	xdg := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(xdg, ConfigDirName), 0o755))
	path := filepath.Join(xdg, ConfigDirName, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", xdg)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	assert.Equal(t, path, FindConfigPath())
}
