package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PROCHUNTER_SAMPLE_INTERVAL", "PROCHUNTER_LOG_LEVEL", "PROCHUNTER_JSON"} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sample_interval: 250ms\nlog_level: debug\njson: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.SampleInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.JSON)
}

func TestLoadBadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sample_interval: [\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing config")
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sample_interval: 250ms\njson: true\n"), 0o644))
	t.Setenv("PROCHUNTER_SAMPLE_INTERVAL", "5")
	t.Setenv("PROCHUNTER_LOG_LEVEL", "WARN")
	t.Setenv("PROCHUNTER_JSON", "0")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Millisecond, cfg.SampleInterval, "bare numbers are milliseconds")
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.JSON)
}

func TestNonPositiveIntervalFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("PROCHUNTER_SAMPLE_INTERVAL", "-3s")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, time.Millisecond, cfg.SampleInterval)
}
