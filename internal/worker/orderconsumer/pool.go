package orderconsumer

import (
	"context"
	"log/slog"
	"strconv"

	"seckill-service/internal/infra/redislock"
	"seckill-service/internal/pkg/workerpool"

	"github.com/redis/go-redis/v9"
)

// Pool runs several group members in one process, named {Name}-{i}.
type Pool struct {
	consumers []*Consumer
	workers   *workerpool.Pool
	logger    *slog.Logger
}

func NewPool(rdb redis.Cmdable, locks *redislock.Service, orders OrderMaterializer, logger *slog.Logger, opts Options, size int) *Pool {
	if size <= 0 {
		size = 1
	}
	consumers := make([]*Consumer, 0, size)
	for i := range size {
		o := opts
		o.Name = opts.Name + "-" + strconv.Itoa(i)
		consumers = append(consumers, New(rdb, locks, orders, logger, o))
	}
	return &Pool{
		consumers: consumers,
		workers:   workerpool.New("order-consumers", size, logger),
		logger:    logger,
	}
}

func (p *Pool) Consumers() []*Consumer {
	return p.consumers
}

// Start creates the group and launches every consumer. It returns once they
// are running.
func (p *Pool) Start(ctx context.Context) error {
	if err := p.consumers[0].EnsureGroup(ctx); err != nil {
		return err
	}
	for _, c := range p.consumers {
		if err := p.workers.Submit(c.Run); err != nil {
			return err
		}
	}
	p.logger.Info("order consumers started", slog.Int("count", len(p.consumers)))
	return nil
}

// Stop cancels the consumers and waits for in-flight messages until ctx ends.
func (p *Pool) Stop(ctx context.Context) error {
	return p.workers.Stop(ctx)
}
