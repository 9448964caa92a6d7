package order

import (
	"context"
	"fmt"
	"sync"
	"time"

	"booth-client/internal/logger"
)

// DefaultPollInterval matches the booth fulfillment cadence.
const DefaultPollInterval = 3 * time.Second

// PollFunc performs one poll. A returned error stops the loop.
type PollFunc func(ctx context.Context) error

// Poller owns the recurring poll loop as an explicit handle: Start stops any
// previous loop first, so at most one loop runs per poller. The failure
// policy is fail-stop - one failed fetch ends the loop and it stays down
// until Start is called again. There is no backoff; a stopped loop is
// surfaced through Running and the log.
type Poller struct {
	interval time.Duration
	logger   *logger.Logger
	poll     PollFunc

	// startMu serializes Start against Start and Stop so the stop of the
	// previous loop and the install of the new handle happen as one step.
	startMu sync.Mutex

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewPoller(interval time.Duration, log *logger.Logger, poll PollFunc) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		interval: interval,
		logger:   log,
		poll:     poll,
	}
}

// Start launches the loop: one immediate poll, then one per tick. It returns
// immediately.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	defer p.startMu.Unlock()

	p.stopLocked()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	p.mu.Lock()
	p.cancel = cancel
	p.done = done
	p.mu.Unlock()

	go p.run(ctx, cancel, done)
}

func (p *Poller) run(ctx context.Context, cancel context.CancelFunc, done chan struct{}) {
	defer close(done)
	defer cancel()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if err := p.poll(ctx); err != nil {
			if ctx.Err() == nil {
				p.logger.Error("POLL", fmt.Sprintf("poll failed, stopping loop: %v", err))
			}
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Stop ends the loop and waits for it to exit. Safe to call when no loop is
// running.
func (p *Poller) Stop() {
	p.startMu.Lock()
	defer p.startMu.Unlock()
	p.stopLocked()
}

func (p *Poller) stopLocked() {
	p.mu.Lock()
	cancel := p.cancel
	done := p.done
	p.cancel = nil
	p.done = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Running reports whether a loop is currently active. A loop that fail-
// stopped reports false even though Stop was never called.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done == nil {
		return false
	}
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}
