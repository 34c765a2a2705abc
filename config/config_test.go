package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/FrenchMajesty/turbo-utils/backoff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
policies:
  api_calls:
    mode: exponential
    initial_delay_ms: 1000
    max_attempts: 3
  quick:
    initial_delay_ms: 200
  broken:
    mode: warp
    initial_delay_ms: 100
  no_delay:
    mode: constant
    max_attempts: 2

debounce_delays_ms:
  search_input: 300
  negative: -5

polling_intervals_ms:
  dashboard: 5000
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Len(t, cfg.Policies, 4)
	assert.Len(t, cfg.DebounceDelaysMs, 2)
	assert.Len(t, cfg.PollingIntervalsMs, 1)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("policies: [not: a: map"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Policies, 4)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigPolicy(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	policy, err := cfg.Policy("api_calls")
	require.NoError(t, err)
	assert.Equal(t, backoff.ModeExponential, policy.Mode)
	assert.Equal(t, time.Second, policy.InitialDelay)
	assert.Equal(t, 3, policy.MaxAttempts)

	// Omitted mode and attempts fall back to defaults
	policy, err = cfg.Policy("quick")
	require.NoError(t, err)
	assert.Equal(t, backoff.ModeConstant, policy.Mode)
	assert.Equal(t, 200*time.Millisecond, policy.InitialDelay)
	assert.Equal(t, backoff.DefaultMaxAttempts, policy.MaxAttempts)
}

func TestConfigPolicy_Errors(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	_, err = cfg.Policy("nonexistent")
	assert.Error(t, err, "Unknown policy names should be rejected")

	_, err = cfg.Policy("broken")
	assert.Error(t, err, "Unknown mode strings should be rejected")

	_, err = cfg.Policy("no_delay")
	assert.Error(t, err, "Missing initial delay should fail policy validation")
}

func TestConfigDurations(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	delay, err := cfg.DebounceDelay("search_input")
	require.NoError(t, err)
	assert.Equal(t, 300*time.Millisecond, delay)

	interval, err := cfg.PollingInterval("dashboard")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, interval)

	_, err = cfg.DebounceDelay("nonexistent")
	assert.Error(t, err)

	_, err = cfg.DebounceDelay("negative")
	assert.Error(t, err)

	_, err = cfg.PollingInterval("nonexistent")
	assert.Error(t, err)
}
