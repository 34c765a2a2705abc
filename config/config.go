// Package config loads kit configuration from YAML: named backoff policies,
// debounce delays, and polling intervals. Delays are expressed in
// milliseconds.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/FrenchMajesty/turbo-utils/backoff"
	"gopkg.in/yaml.v3"
)

// PolicyConfig is the YAML shape of one backoff policy
type PolicyConfig struct {
	// Mode is "constant" or "exponential". Empty defaults to constant.
	Mode string `yaml:"mode"`
	// InitialDelayMs is the delay before the first retry, in milliseconds
	InitialDelayMs int `yaml:"initial_delay_ms"`
	// MaxAttempts is the total attempt budget. Zero defaults to 3.
	MaxAttempts int `yaml:"max_attempts"`
}

// Config holds the full kit configuration
type Config struct {
	Policies           map[string]PolicyConfig `yaml:"policies"`
	DebounceDelaysMs   map[string]int          `yaml:"debounce_delays_ms"`
	PollingIntervalsMs map[string]int          `yaml:"polling_intervals_ms"`
}

// Load reads and parses a YAML config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML config bytes
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// Policy materializes the named backoff policy. Unknown names and unknown
// mode strings are configuration errors; the policy is validated before it is
// returned.
func (c *Config) Policy(name string) (backoff.Policy, error) {
	pc, ok := c.Policies[name]
	if !ok {
		return backoff.Policy{}, fmt.Errorf("unknown policy %q", name)
	}

	var mode backoff.Mode
	switch pc.Mode {
	case "", "constant":
		mode = backoff.ModeConstant
	case "exponential":
		mode = backoff.ModeExponential
	default:
		return backoff.Policy{}, fmt.Errorf("policy %q: unknown mode %q", name, pc.Mode)
	}

	maxAttempts := pc.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = backoff.DefaultMaxAttempts
	}

	policy := backoff.Policy{
		Mode:         mode,
		InitialDelay: time.Duration(pc.InitialDelayMs) * time.Millisecond,
		MaxAttempts:  maxAttempts,
	}

	if err := policy.Validate(); err != nil {
		return backoff.Policy{}, fmt.Errorf("policy %q: %w", name, err)
	}

	return policy, nil
}

// DebounceDelay returns the named debounce delay
func (c *Config) DebounceDelay(name string) (time.Duration, error) {
	return c.positiveDuration(c.DebounceDelaysMs, "debounce delay", name)
}

// PollingInterval returns the named polling interval
func (c *Config) PollingInterval(name string) (time.Duration, error) {
	return c.positiveDuration(c.PollingIntervalsMs, "polling interval", name)
}

func (c *Config) positiveDuration(entries map[string]int, kind string, name string) (time.Duration, error) {
	ms, ok := entries[name]
	if !ok {
		return 0, fmt.Errorf("unknown %s %q", kind, name)
	}

	if ms <= 0 {
		return 0, fmt.Errorf("%s %q must be positive, got %dms", kind, name, ms)
	}

	return time.Duration(ms) * time.Millisecond, nil
}
