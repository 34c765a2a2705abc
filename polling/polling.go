// Package polling provides a repeating poller that invokes a function on a
// fixed interval until stopped. Per-tick errors are logged and never stop the
// loop.
package polling

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/FrenchMajesty/turbo-utils/clock"
	"github.com/FrenchMajesty/turbo-utils/utils/logger"
)

// PollFunc is one poll invocation. It receives a context that is cancelled
// when the poller stops.
type PollFunc func(ctx context.Context) error

// Poller runs a function on a repeating interval. Safe for concurrent use;
// Start and Stop are idempotent and a stopped poller can be started again.
type Poller struct {
	fn        PollFunc
	interval  time.Duration
	clock     clock.Clock
	logger    logger.Logger
	immediate bool

	mu      sync.Mutex
	running bool
	quit    chan struct{}
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Option customizes a Poller at construction time
type Option func(*Poller)

// WithClock sets the clock that drives the ticker
func WithClock(c clock.Clock) Option {
	return func(p *Poller) {
		p.clock = c
	}
}

// WithLogger sets the logger used to report per-tick errors (noop by default)
func WithLogger(l logger.Logger) Option {
	return func(p *Poller) {
		p.logger = l
	}
}

// WithImmediateTick makes Start run the first poll right away instead of
// waiting one full interval
func WithImmediateTick() Option {
	return func(p *Poller) {
		p.immediate = true
	}
}

// NewPoller creates a poller that invokes fn every interval once started
func NewPoller(fn PollFunc, interval time.Duration, opts ...Option) (*Poller, error) {
	if fn == nil {
		return nil, fmt.Errorf("poll function is nil")
	}

	if interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %v", interval)
	}

	p := &Poller{
		fn:       fn,
		interval: interval,
		clock:    clock.System(),
		logger:   logger.NewNoopLogger(), // Default to noop
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Start begins polling. Calling Start on a running poller is a no-op.
func (p *Poller) Start() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}

	p.running = true
	p.quit = make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	// Created here rather than in the goroutine so a tick is armed before
	// Start returns
	ticker := p.clock.NewTicker(p.interval)
	quit := p.quit
	p.mu.Unlock()

	p.wg.Add(1)
	go p.loop(ctx, ticker, quit)
}

// loop is the poll loop. It exits on the quit signal.
func (p *Poller) loop(ctx context.Context, ticker clock.Ticker, quit chan struct{}) {
	defer p.wg.Done()
	defer ticker.Stop()

	if p.immediate {
		p.tick(ctx)
	}

	for {
		select {
		case <-quit:
			return // Shutdown signal
		case <-ticker.C():
			p.tick(ctx)
		}
	}
}

// tick runs one poll invocation, absorbing its error
func (p *Poller) tick(ctx context.Context) {
	if err := p.fn(ctx); err != nil {
		p.logger.Printf("Poller tick failed: %v", err)
	}
}

// Stop halts polling and cancels the context passed to in-flight polls. It
// blocks until the poll loop has exited.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}

	p.running = false
	close(p.quit)
	p.cancel()
	p.mu.Unlock()

	p.wg.Wait()
}

// IsRunning returns true if the poller has been started and not yet stopped
func (p *Poller) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
