package clock

import (
	"context"
	"time"
)

// Clock abstracts time so components that schedule work (backoff delays,
// debounce timers, polling tickers) can run against a simulated clock in tests.
type Clock interface {
	// Now returns the current time
	Now() time.Time
	// NewTimer creates a single-shot timer that fires once after d
	NewTimer(d time.Duration) Timer
	// NewTicker creates a repeating ticker that fires every d
	NewTicker(d time.Duration) Ticker
	// Sleep blocks for d or until ctx is cancelled, whichever comes first.
	// Returns nil if the full duration elapsed, or the context's error.
	Sleep(ctx context.Context, d time.Duration) error
}

// Timer is a cancellable single-shot timer with schedule/cancel semantics
type Timer interface {
	// C returns the channel the timer fires on
	C() <-chan time.Time
	// Stop cancels the timer. Returns false if it already fired or was stopped.
	Stop() bool
	// Reset re-arms the timer to fire after d. Returns true if the timer was
	// still pending when reset.
	Reset(d time.Duration) bool
}

// Ticker is a repeating timer with start/cancel semantics
type Ticker interface {
	// C returns the channel the ticker fires on
	C() <-chan time.Time
	// Stop cancels the ticker
	Stop()
}

// System returns a Clock backed by the real time package
func System() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) NewTimer(d time.Duration) Timer {
	return &systemTimer{timer: time.NewTimer(d)}
}

func (systemClock) NewTicker(d time.Duration) Ticker {
	return &systemTicker{ticker: time.NewTicker(d)}
}

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type systemTimer struct {
	timer *time.Timer
}

func (t *systemTimer) C() <-chan time.Time {
	return t.timer.C
}

func (t *systemTimer) Stop() bool {
	return t.timer.Stop()
}

func (t *systemTimer) Reset(d time.Duration) bool {
	return t.timer.Reset(d)
}

type systemTicker struct {
	ticker *time.Ticker
}

func (t *systemTicker) C() <-chan time.Time {
	return t.ticker.C
}

func (t *systemTicker) Stop() {
	t.ticker.Stop()
}
