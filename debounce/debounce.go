// Package debounce provides a last-call-wins debouncer built on a cancellable
// single-shot timer. Calls made within the delay window supersede each other;
// only the most recent function runs once the window goes quiet.
package debounce

import (
	"sync"
	"time"

	"github.com/FrenchMajesty/turbo-utils/clock"
)

// Debouncer coalesces bursts of calls into a single invocation of the most
// recently supplied function. Safe for concurrent use.
type Debouncer struct {
	delay time.Duration
	clock clock.Clock

	mu      sync.Mutex
	pending func()
	cancel  chan struct{} // cancels the currently scheduled wait
	stopped bool
}

// Option customizes a Debouncer at construction time
type Option func(*Debouncer)

// WithClock sets the clock used to schedule the delay window
func WithClock(c clock.Clock) Option {
	return func(d *Debouncer) {
		d.clock = c
	}
}

// NewDebouncer creates a debouncer with the given quiet window
func NewDebouncer(delay time.Duration, opts ...Option) *Debouncer {
	d := &Debouncer{
		delay: delay,
		clock: clock.System(),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Call schedules fn to run after the delay window, replacing any previously
// scheduled function and restarting the window
func (d *Debouncer) Call(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if d.cancel != nil {
		close(d.cancel)
	}

	cancel := make(chan struct{})
	d.cancel = cancel
	d.pending = fn

	timer := d.clock.NewTimer(d.delay)
	go d.await(timer, cancel)
}

// await waits out one delay window. A superseding Call or a Stop closes the
// cancel channel, which discards this window without running anything.
func (d *Debouncer) await(timer clock.Timer, cancel chan struct{}) {
	defer timer.Stop()

	select {
	case <-timer.C():
		d.mu.Lock()
		if d.stopped || d.cancel != cancel {
			// A newer call owns the pending function now
			d.mu.Unlock()
			return
		}
		fn := d.pending
		d.pending = nil
		d.cancel = nil
		d.mu.Unlock()

		if fn != nil {
			fn()
		}

	case <-cancel:
		return
	}
}

// Flush runs the pending function immediately, if any, and cancels the wait
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.stopped || d.cancel == nil {
		d.mu.Unlock()
		return
	}

	close(d.cancel)
	fn := d.pending
	d.pending = nil
	d.cancel = nil
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Pending returns true if a function is waiting for the window to elapse
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Stop cancels any pending invocation. The debouncer ignores calls afterwards.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.pending = nil
	if d.cancel != nil {
		close(d.cancel)
		d.cancel = nil
	}
}
