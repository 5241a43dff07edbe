package components

import (
	"context"
	"log/slog"

	"seckill-service/internal/infra/cache"
	"seckill-service/internal/infra/idgen"
	"seckill-service/internal/infra/redislock"
	"seckill-service/internal/infra/seckill"
	"seckill-service/internal/pkg/clock"
	"seckill-service/internal/pkg/config"
	"seckill-service/internal/pkg/workerpool"
	"seckill-service/internal/usecase/commands"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// StoreModule wires the Redis-backed building blocks.
var StoreModule = fx.Module("store",
	fx.Provide(
		clock.NewRealClock,
		idgen.NewGenerator,
		redislock.NewService,
		NewCacheClient,
		fx.Annotate(
			func(c *cache.Client) *cache.Client { return c },
			fx.As(new(commands.EntityCache)),
		),
		NewGate,
		fx.Annotate(
			func(g *seckill.Gate) *seckill.Gate { return g },
			fx.As(new(commands.AdmissionGate)),
		),
	),
)

// NewCacheClient owns the rebuild pool and drains it on shutdown.
func NewCacheClient(lc fx.Lifecycle, rdb redis.Cmdable, locks *redislock.Service, clk clock.Clock, logger *slog.Logger, cfg config.Config) *cache.Client {
	pool := workerpool.New("cache-rebuild", cfg.Cache.RebuildWorkers, logger)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return pool.Stop(ctx)
		},
	})
	return cache.NewClient(rdb, locks, pool, clk, logger, cache.Options{
		NullTTL:        cfg.Cache.NullTTL,
		RebuildLease:   cfg.Cache.RebuildLockTTL,
		RebuildTimeout: cfg.Cache.RebuildTimeout,
	})
}

func NewGate(rdb redis.Cmdable, ids *idgen.Generator, clk clock.Clock, cfg config.Config) *seckill.Gate {
	return seckill.NewGate(rdb, ids, clk, seckill.Options{
		Stream:          cfg.Seckill.Stream,
		IDTag:           cfg.Seckill.IDTag,
		BreakerFailures: cfg.Seckill.BreakerFailures,
		BreakerTimeout:  cfg.Seckill.BreakerTimeout,
	})
}
