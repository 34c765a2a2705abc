package clock

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Mock is a manually advanced Clock for deterministic tests. Time only moves
// when Advance is called; due timers and tickers fire in deadline order.
type Mock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*mockTimer
}

// NewMock creates a mock clock starting at the given time
func NewMock(start time.Time) *Mock {
	return &Mock{now: start}
}

func (m *Mock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Mock) NewTimer(d time.Duration) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := &mockTimer{
		mock:     m,
		deadline: m.now.Add(d),
		ch:       make(chan time.Time, 1),
	}
	m.timers = append(m.timers, t)
	return t
}

func (m *Mock) NewTicker(d time.Duration) Ticker {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := &mockTimer{
		mock:     m,
		deadline: m.now.Add(d),
		interval: d,
		ch:       make(chan time.Time, 1),
	}
	m.timers = append(m.timers, t)
	return mockTicker{t}
}

// mockTicker adapts mockTimer's Stop() bool to the Ticker interface's Stop()
type mockTicker struct {
	*mockTimer
}

func (t mockTicker) Stop() {
	t.mockTimer.Stop()
}

func (m *Mock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := m.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Advance moves the clock forward by d, firing every timer and ticker whose
// deadline falls within the advanced window
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)

	for {
		next := m.nextDue(target)
		if next == nil {
			break
		}

		m.now = next.deadline
		next.fire(m.now)
		if next.interval > 0 {
			next.deadline = next.deadline.Add(next.interval)
		} else {
			next.stopped = true
		}
	}

	m.now = target
	m.mu.Unlock()
}

// PendingTimers returns the number of armed timers and tickers. Tests can poll
// this to know a component has scheduled its wait before advancing the clock.
func (m *Mock) PendingTimers() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, t := range m.timers {
		if !t.stopped {
			count++
		}
	}
	return count
}

// nextDue returns the earliest unstopped timer due at or before target.
// Note: caller must hold the lock
func (m *Mock) nextDue(target time.Time) *mockTimer {
	due := make([]*mockTimer, 0, len(m.timers))
	for _, t := range m.timers {
		if !t.stopped && !t.deadline.After(target) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}

	sort.Slice(due, func(i, j int) bool {
		return due[i].deadline.Before(due[j].deadline)
	})
	return due[0]
}

type mockTimer struct {
	mock     *Mock
	deadline time.Time
	interval time.Duration // 0 means single-shot
	ch       chan time.Time
	stopped  bool
}

func (t *mockTimer) C() <-chan time.Time {
	return t.ch
}

func (t *mockTimer) Stop() bool {
	t.mock.mu.Lock()
	defer t.mock.mu.Unlock()

	wasPending := !t.stopped
	t.stopped = true
	return wasPending
}

func (t *mockTimer) Reset(d time.Duration) bool {
	t.mock.mu.Lock()
	defer t.mock.mu.Unlock()

	wasPending := !t.stopped
	t.stopped = false
	t.deadline = t.mock.now.Add(d)
	return wasPending
}

// fire delivers a tick without blocking; a tick already sitting in the
// channel is dropped rather than queued, matching time.Ticker behavior.
// Note: caller must hold the lock
func (t *mockTimer) fire(now time.Time) {
	select {
	case t.ch <- now:
	default:
	}
}
