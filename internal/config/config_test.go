package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Address)
	assert.Equal(t, time.Second, cfg.Monitor.CollectInterval)
	assert.Equal(t, 60, cfg.Monitor.HistoryPoints)
	assert.Equal(t, 30*time.Second, cfg.Shell.CommandTimeout)
	assert.Equal(t, 10*time.Second, cfg.SSH.DialTimeout)
	assert.Equal(t, "crontab", cfg.Cron.CrontabBinary)
	assert.Equal(t, 90*24*time.Hour, cfg.Auth.TokenTTL)
	assert.NotEmpty(t, cfg.StateDir)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opsdeck.yaml")
	content := `server:
  address: 0.0.0.0:9090
shell:
  command_timeout: 5s
cron:
  crontab_binary: /usr/bin/crontab
state_dir: /tmp/opsdeck-test
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Address)
	assert.Equal(t, 5*time.Second, cfg.Shell.CommandTimeout)
	assert.Equal(t, "/usr/bin/crontab", cfg.Cron.CrontabBinary)
	assert.Equal(t, "/tmp/opsdeck-test", cfg.StateDir)

	// Untouched keys keep their defaults
	assert.Equal(t, 60, cfg.Monitor.HistoryPoints)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("OPSDECK_SERVER_ADDRESS", "127.0.0.1:7777")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7777", cfg.Server.Address)
}

func TestStatePath(t *testing.T) {
	cfg := &Config{StateDir: "/var/lib/opsdeck"}
	assert.Equal(t, filepath.Join("/var/lib/opsdeck", "state.json"), cfg.StatePath("state.json"))
}
