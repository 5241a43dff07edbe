package components

import (
	"context"
	"log/slog"

	"seckill-service/internal/infra/redislock"
	"seckill-service/internal/pkg/config"
	"seckill-service/internal/usecase/commands"
	"seckill-service/internal/worker/orderconsumer"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		NewOrderConsumerPool,
	),
	fx.Invoke(func(*orderconsumer.Pool) {}),
)

func NewOrderConsumerPool(lc fx.Lifecycle, rdb redis.Cmdable, locks *redislock.Service, orders commands.OrderCommands, logger *slog.Logger, cfg config.Config) *orderconsumer.Pool {
	pool := orderconsumer.NewPool(rdb, locks, orders, logger, orderconsumer.Options{
		Stream:           cfg.Seckill.Stream,
		Group:            cfg.Seckill.Group,
		Name:             cfg.Consumer.ConsumerName(),
		Batch:            cfg.Consumer.Batch,
		Block:            cfg.Consumer.Block,
		RecoveryInterval: cfg.Consumer.RecoveryInterval,
		LockLease:        cfg.Consumer.LockLease,
		ClaimIdle:        cfg.Consumer.ClaimIdle,
		ErrorBackoff:     cfg.Consumer.ErrorBackoff,
	}, cfg.Consumer.Workers)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return pool.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return pool.Stop(ctx)
		},
	})
	return pool
}
