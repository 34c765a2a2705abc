package backoff

import (
	"fmt"
	"time"
)

// Mode selects how the delay between retry attempts evolves
type Mode int

const (
	// ModeConstant keeps the delay fixed at InitialDelay for every retry
	ModeConstant Mode = iota
	// ModeExponential doubles the delay after each failed attempt
	ModeExponential
)

func (m Mode) String() string {
	switch m {
	case ModeConstant:
		return "constant"
	case ModeExponential:
		return "exponential"
	default:
		return "unknown"
	}
}

const (
	// DefaultInitialDelay is the delay before the first retry when none is configured
	DefaultInitialDelay = 200 * time.Millisecond
	// DefaultMaxAttempts is the total attempt budget when none is configured
	DefaultMaxAttempts = 3
)

// Policy configures the retry behavior for one executor. It is immutable for
// the lifetime of an Execute call.
type Policy struct {
	// Mode selects constant or exponential delay growth
	Mode Mode
	// InitialDelay is the delay before the first retry. Must be positive.
	InitialDelay time.Duration
	// MaxAttempts is the total number of operation invocations allowed per
	// Execute call, including the first one. Must be at least 1.
	MaxAttempts int
}

// DefaultPolicy returns a policy with sensible defaults: constant 200ms delay,
// 3 attempts total
func DefaultPolicy() Policy {
	return Policy{
		Mode:         ModeConstant,
		InitialDelay: DefaultInitialDelay,
		MaxAttempts:  DefaultMaxAttempts,
	}
}

// Validate checks the policy configuration. An invalid policy is refused
// before any attempt is scheduled.
func (p Policy) Validate() error {
	if p.InitialDelay <= 0 {
		return fmt.Errorf("initial delay must be positive, got %v", p.InitialDelay)
	}

	if p.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1, got %d", p.MaxAttempts)
	}

	return nil
}
