// Package workerpool runs background tasks on a bounded number of goroutines.
package workerpool

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"seckill-service/internal/pkg/errs"

	"golang.org/x/sync/errgroup"
)

var ErrPoolStopped = errs.New("worker pool stopped")

type Task func(ctx context.Context) error

type Pool struct {
	name   string
	group  errgroup.Group
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger

	mu      sync.RWMutex
	stopped atomic.Bool
}

func New(name string, size int, logger *slog.Logger) *Pool {
	if size <= 0 {
		size = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		name:   name,
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
	p.group.SetLimit(size)
	return p
}

// TrySubmit starts task only if a slot is free. It never blocks.
func (p *Pool) TrySubmit(task Task) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped.Load() {
		return false
	}
	return p.group.TryGo(p.wrap(task))
}

// Submit waits for a free slot and then starts task.
func (p *Pool) Submit(task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped.Load() {
		return ErrPoolStopped
	}
	p.group.Go(p.wrap(task))
	return nil
}

// Wait blocks until every submitted task has returned.
func (p *Pool) Wait() {
	_ = p.group.Wait()
}

// Stop rejects new tasks, cancels the context handed to running ones and waits
// for them until ctx expires.
func (p *Pool) Stop(ctx context.Context) error {
	p.stopped.Store(true)
	p.cancel()
	// Submit calls that passed the stopped check finish registering before Wait.
	p.mu.Lock()
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errs.Wrap(ctx.Err(), "worker pool "+p.name+" did not drain")
	}
}

func (p *Pool) wrap(task Task) func() error {
	return func() error {
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("worker task panicked", "pool", p.name, "panic", r)
			}
		}()
		if err := task(p.ctx); err != nil && !errs.Is(err, context.Canceled) {
			p.logger.Warn("worker task failed", "pool", p.name, "error", err.Error())
		}
		return nil
	}
}
