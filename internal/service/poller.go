package service

import (
	"context"
	"sync"
	"time"

	"autoprint/internal/logger"
	"autoprint/internal/repository"
)

// DefaultPollInterval is the cadence of the device state poll.
const DefaultPollInterval = 500 * time.Millisecond

// Poller keeps the mirror in sync with the controller while the UI is active.
// At most one polling loop runs at a time.
type Poller struct {
	repo     repository.DeviceRepo
	mirror   *Mirror
	interval time.Duration
	timeout  time.Duration
	log      *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewPoller(repo repository.DeviceRepo, mirror *Mirror, interval, timeout time.Duration, log *logger.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		repo:     repo,
		mirror:   mirror,
		interval: interval,
		timeout:  timeout,
		log:      logger.OrNop(log),
	}
}

// Start begins polling. Calling it while running is a no-op.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done
	go p.loop(ctx, done)
	p.log.Infow("polling_started", "interval", p.interval.String())
}

// Stop halts polling and returns once the loop has exited.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
	p.cancel = nil
	p.done = nil
	p.log.Infow("polling_stopped")
}

// Running reports whether a polling loop is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

func (p *Poller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	if err := p.Refresh(ctx); err != nil && ctx.Err() == nil {
		p.log.Debugw("poll_tick_failed", "err", err)
	}
}

// Refresh performs one state query and applies the answer to the mirror.
func (p *Poller) Refresh(ctx context.Context) error {
	ticket := p.mirror.Ticket()

	ctx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	report, err := p.repo.FetchState(ctx)
	if err != nil {
		return err
	}
	if !p.mirror.Replace(ticket, report.State, report.Job) {
		p.log.Debugw("poll_answer_dropped")
	}
	return nil
}
