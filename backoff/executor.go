package backoff

import (
	"context"
	"fmt"
	"sync"

	"github.com/FrenchMajesty/turbo-utils/clock"
	"github.com/FrenchMajesty/turbo-utils/utils/logger"
	"github.com/google/uuid"
)

// Status describes what the executor is currently doing
type Status int

const (
	// StatusIdle means no execution is in progress and the last one, if any, succeeded
	StatusIdle Status = iota
	// StatusRunning means an execution is in progress
	StatusRunning
	// StatusFailed means the last execution exhausted its attempts
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Operation is a zero-argument fallible operation. It receives the context
// passed to Execute so it can observe cancellation mid-flight; the executor
// never forcibly aborts an in-flight call.
type Operation func(ctx context.Context) error

// Executor runs a fallible operation and retries it on failure according to a
// Policy. Intermediate failures are swallowed and drive the retry loop; only
// the final exhausted-attempts failure is surfaced to the caller.
//
// Concurrent Execute calls are not serialized: each call owns its attempt
// counter and delay. The design assumes the caller invokes Execute once at a
// time, e.g. by disabling the triggering action while Status is StatusRunning.
type Executor struct {
	op     Operation
	policy Policy

	logger     logger.Logger
	verboseLog bool
	clock      clock.Clock

	// Orchestration
	mu         sync.RWMutex
	status     Status
	lastError  error
	statusChan chan Status
	eventChan  chan *Event
}

// Option customizes an Executor at construction time
type Option func(*Executor)

// WithLogger sets the logger used for retry logging (noop by default)
func WithLogger(l logger.Logger) Option {
	return func(e *Executor) {
		e.logger = l
	}
}

// WithVerboseLog enables logging of every attempt, retry and outcome
func WithVerboseLog(verbose bool) Option {
	return func(e *Executor) {
		e.verboseLog = verbose
	}
}

// WithClock sets the clock used to wait between attempts. Tests inject a
// simulated clock here; the default is the system clock.
func WithClock(c clock.Clock) Option {
	return func(e *Executor) {
		e.clock = c
	}
}

// NewExecutor creates an executor for the given operation and policy. The
// policy is validated once here; an invalid policy means no attempt will ever
// be scheduled.
func NewExecutor(op Operation, policy Policy, opts ...Option) (*Executor, error) {
	if op == nil {
		return nil, fmt.Errorf("operation is nil")
	}

	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid backoff policy: %w", err)
	}

	e := &Executor{
		op:         op,
		policy:     policy,
		status:     StatusIdle,
		logger:     logger.NewNoopLogger(), // Default to noop
		clock:      clock.System(),
		statusChan: make(chan Status, 2),
		eventChan:  make(chan *Event, 64),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Execute runs the operation, retrying on failure per the policy. It blocks
// until the operation succeeds, the attempt budget is exhausted, or ctx is
// cancelled while a retry delay is pending.
func (e *Executor) Execute(ctx context.Context) error {
	executionID := uuid.New()
	e.setStatus(StatusRunning)

	// Attempt counter and current delay are local to this call; concurrent
	// calls never share them.
	currentDelay := e.policy.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= e.policy.MaxAttempts; attempt++ {
		e.emitEvent(EventAttemptStarted, executionID, map[string]any{
			"attempt":      attempt,
			"max_attempts": e.policy.MaxAttempts,
		})

		err := e.runAttempt(ctx)
		if err == nil {
			if attempt > 1 {
				e.emitEvent(EventRecovered, executionID, map[string]any{
					"attempts": attempt,
				})
				if e.verboseLog {
					e.logger.Printf("Executor succeeded on attempt %d/%d", attempt, e.policy.MaxAttempts)
				}
			}
			e.recordSuccess()
			return nil
		}

		lastErr = err
		e.emitEvent(EventAttemptFailed, executionID, map[string]any{
			"attempt": attempt,
			"error":   err.Error(),
		})

		if attempt == e.policy.MaxAttempts {
			break
		}

		// Attempts remain, so the failure is swallowed and we wait before retrying
		if e.verboseLog {
			e.logger.Printf("Executor attempt %d/%d failed, retrying in %v: %v",
				attempt, e.policy.MaxAttempts, currentDelay, err)
		}
		e.emitEvent(EventRetryScheduled, executionID, map[string]any{
			"next_attempt": attempt + 1,
			"delay":        currentDelay.String(),
		})

		if sleepErr := e.clock.Sleep(ctx, currentDelay); sleepErr != nil {
			// Teardown while the delay was pending: cancel the wait and run
			// no further attempts
			e.recordFailure(lastErr)
			e.emitEvent(EventCancelled, executionID, map[string]any{
				"attempts": attempt,
				"error":    sleepErr.Error(),
			})
			return fmt.Errorf("execution cancelled: %w", sleepErr)
		}

		// The delay only grows after the wait for the current one, so the
		// first retry always waits InitialDelay
		if e.policy.Mode == ModeExponential {
			currentDelay *= 2
		}
	}

	e.recordFailure(lastErr)
	e.emitEvent(EventExhausted, executionID, map[string]any{
		"attempts": e.policy.MaxAttempts,
		"error":    lastErr.Error(),
	})
	if e.verboseLog {
		e.logger.Printf("Executor failed after %d attempts, last error: %v",
			e.policy.MaxAttempts, lastErr)
	}

	return lastErr
}

// runAttempt invokes the operation once, coercing a panic into a generic error
func (e *Executor) runAttempt(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in operation: %v", r)
		}
	}()

	return e.op(ctx)
}

// Status returns the current execution status
func (e *Executor) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status
}

// LastError returns the error recorded by the last exhausted execution, or
// nil if the last execution succeeded
func (e *Executor) LastError() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastError
}

// StatusChan returns a channel that receives status transitions. Sends are
// non-blocking; a slow reader misses updates rather than stalling Execute.
func (e *Executor) StatusChan() <-chan Status {
	return e.statusChan
}

// setStatus sets the status and publishes the transition
func (e *Executor) setStatus(status Status) {
	e.mu.Lock()
	e.status = status
	e.mu.Unlock()

	select {
	case e.statusChan <- status:
		// Status sent successfully
	default:
		// Channel full or no receiver, continue without blocking
	}
}

func (e *Executor) recordSuccess() {
	e.mu.Lock()
	e.lastError = nil
	e.mu.Unlock()
	e.setStatus(StatusIdle)
}

func (e *Executor) recordFailure(err error) {
	e.mu.Lock()
	e.lastError = err
	e.mu.Unlock()
	e.setStatus(StatusFailed)
}
