package schedule

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const DefaultInterval = 30 * time.Second

// Periodic runs Task every Interval between Start and Stop. The first run happens
// one interval after Start. Start and Stop are idempotent and safe to call from
// any goroutine.
type Periodic struct {
	Name     string
	Interval time.Duration
	Task     func(ctx context.Context)
	Logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Start launches the loop under parent. It reports false when already running.
func (p *Periodic) Start(parent context.Context) bool {
	if p.Task == nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return false
	}
	ctx, cancel := context.WithCancel(parent)
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.loop(ctx, p.done)
	if p.Logger != nil {
		p.Logger.Debug("periodic task started", "task", p.Name, "interval", p.interval())
	}
	return true
}

// Stop cancels the loop and waits for an in-flight run to return.
func (p *Periodic) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	if p.Logger != nil {
		p.Logger.Debug("periodic task stopped", "task", p.Name)
	}
}

func (p *Periodic) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

func (p *Periodic) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(p.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Task(ctx)
		}
	}
}

func (p *Periodic) interval() time.Duration {
	if p.Interval <= 0 {
		return DefaultInterval
	}
	return p.Interval
}
