// Package cache is a read-through JSON cache on Redis with two read
// strategies: a penetration guard for keys that may not exist, and logical
// expiry with asynchronous rebuild for hot keys.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"seckill-service/internal/infra/redislock"
	"seckill-service/internal/infra/redisstore"
	"seckill-service/internal/pkg/clock"
	"seckill-service/internal/pkg/errs"
	"seckill-service/internal/pkg/metrics"
	"seckill-service/internal/pkg/workerpool"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	strategyPassThrough = "passthrough"
	strategyLogical     = "logical"

	// stored in place of a value the loader could not find
	tombstone = ""
)

// Loader fetches the authoritative value. It returns (nil, nil) when the
// entity does not exist.
type Loader[T any] func(ctx context.Context) (*T, error)

type Options struct {
	NullTTL        time.Duration
	RebuildLease   time.Duration
	RebuildTimeout time.Duration
}

type Client struct {
	rdb    redis.Cmdable
	locks  *redislock.Service
	pool   *workerpool.Pool
	clock  clock.Clock
	logger *slog.Logger
	opts   Options
	group  singleflight.Group
}

func NewClient(rdb redis.Cmdable, locks *redislock.Service, pool *workerpool.Pool, clk clock.Clock, logger *slog.Logger, opts Options) *Client {
	if opts.NullTTL <= 0 {
		opts.NullTTL = 2 * time.Minute
	}
	if opts.RebuildLease <= 0 {
		opts.RebuildLease = 10 * time.Second
	}
	if opts.RebuildTimeout <= 0 {
		opts.RebuildTimeout = 5 * time.Second
	}
	return &Client{
		rdb:    rdb,
		locks:  locks,
		pool:   pool,
		clock:  clk,
		logger: logger,
		opts:   opts,
	}
}

type logicalEntry struct {
	Data     json.RawMessage `json:"data"`
	ExpireAt time.Time       `json:"expireAt"`
}

// Set stores value as JSON with a physical TTL.
func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return errs.Wrap(err, "encode cache value")
	}
	if err := c.rdb.Set(ctx, key, payload, ttl).Err(); err != nil {
		return redisstore.Unavailable(err, "write cache key "+key)
	}
	return nil
}

// SetWithLogicalExpire stores value without a physical TTL; the expiry travels
// inside the payload. This is also the warm-up path for GetWithRebuild keys.
func (c *Client) SetWithLogicalExpire(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errs.Wrap(err, "encode cache value")
	}
	payload, err := json.Marshal(logicalEntry{
		Data:     data,
		ExpireAt: c.clock.Now().Add(ttl),
	})
	if err != nil {
		return errs.Wrap(err, "encode cache entry")
	}
	if err := c.rdb.Set(ctx, key, payload, 0).Err(); err != nil {
		return redisstore.Unavailable(err, "write cache key "+key)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return redisstore.Unavailable(err, "delete cache key "+key)
	}
	return nil
}

// Get reads key, falling back to loader on a miss. A value the loader cannot
// find is remembered as a short-lived tombstone, so repeated lookups of a
// missing id stop reaching the loader. Absent values yield errs.ErrCacheMiss.
func Get[T any](ctx context.Context, c *Client, key string, ttl time.Duration, loader Loader[T]) (*T, error) {
	value, found, err := readPlain[T](ctx, c, key)
	if err != nil {
		return nil, err
	}
	if found {
		if value == nil {
			metrics.CacheRequests.WithLabelValues(strategyPassThrough, metrics.OutcomeNull).Inc()
			return nil, errs.Mark(errs.New("cached absence for "+key), errs.ErrCacheMiss)
		}
		metrics.CacheRequests.WithLabelValues(strategyPassThrough, metrics.OutcomeHit).Inc()
		return value, nil
	}

	metrics.CacheRequests.WithLabelValues(strategyPassThrough, metrics.OutcomeMiss).Inc()
	loaded, err, _ := c.group.Do(key, func() (any, error) {
		// a flight that started after the previous one finished sees its write
		value, found, err := readPlain[T](ctx, c, key)
		if err != nil {
			return nil, err
		}
		if found {
			if value == nil {
				return nil, nil
			}
			return value, nil
		}

		value, err = loader(ctx)
		if err != nil {
			return nil, err
		}
		if value == nil {
			if err := c.rdb.Set(ctx, key, tombstone, c.opts.NullTTL).Err(); err != nil {
				c.logger.Warn("failed to write cache tombstone", "key", key, "error", err.Error())
			}
			return nil, nil
		}
		if err := c.Set(ctx, key, value, ttl); err != nil {
			c.logger.Warn("failed to populate cache", "key", key, "error", err.Error())
		}
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	if loaded == nil {
		return nil, errs.Mark(errs.New("no value for "+key), errs.ErrCacheMiss)
	}
	return loaded.(*T), nil
}

// GetWithRebuild serves entries written by SetWithLogicalExpire. A fresh entry
// is returned as is. An expired one is still returned immediately while one
// caller, holding the rebuild lock, refreshes it on the worker pool. Keys that
// were never warmed up yield errs.ErrCacheMiss without touching loader.
func GetWithRebuild[T any](ctx context.Context, c *Client, key string, ttl time.Duration, loader Loader[T]) (*T, error) {
	entry, err := c.readEntry(ctx, key)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		metrics.CacheRequests.WithLabelValues(strategyLogical, metrics.OutcomeMiss).Inc()
		return nil, errs.Mark(errs.New("cache key "+key+" not warmed up"), errs.ErrCacheMiss)
	}

	var value T
	if err := json.Unmarshal(entry.Data, &value); err != nil {
		return nil, errs.Wrap(err, "decode cache value "+key)
	}

	if c.clock.Now().Before(entry.ExpireAt) {
		metrics.CacheRequests.WithLabelValues(strategyLogical, metrics.OutcomeHit).Inc()
		return &value, nil
	}

	metrics.CacheRequests.WithLabelValues(strategyLogical, metrics.OutcomeStale).Inc()
	c.scheduleRebuild(ctx, key, func(rctx context.Context) error {
		fresh, err := loader(rctx)
		if err != nil {
			return err
		}
		if fresh == nil {
			return c.Delete(rctx, key)
		}
		return c.SetWithLogicalExpire(rctx, key, fresh, ttl)
	})
	return &value, nil
}

func (c *Client) scheduleRebuild(ctx context.Context, key string, rebuild func(ctx context.Context) error) {
	lock := c.locks.NewLock(redisstore.RebuildLockPrefix + key)
	ok, err := lock.TryLock(ctx, c.opts.RebuildLease)
	if err != nil {
		c.logger.Warn("rebuild lock unavailable, serving stale value", "key", key, "error", err.Error())
		return
	}
	if !ok {
		return
	}

	submitted := c.pool.TrySubmit(func(poolCtx context.Context) error {
		defer c.release(lock, key)

		rctx, cancel := context.WithTimeout(poolCtx, c.opts.RebuildTimeout)
		defer cancel()

		// another rebuild may have finished between our read and the lock
		entry, err := c.readEntry(rctx, key)
		if err != nil {
			metrics.CacheRebuilds.WithLabelValues(metrics.OutcomeError).Inc()
			return err
		}
		if entry != nil && c.clock.Now().Before(entry.ExpireAt) {
			metrics.CacheRebuilds.WithLabelValues(metrics.OutcomeSkipped).Inc()
			return nil
		}

		if err := rebuild(rctx); err != nil {
			metrics.CacheRebuilds.WithLabelValues(metrics.OutcomeError).Inc()
			return errs.Wrap(err, "rebuild cache key "+key)
		}
		metrics.CacheRebuilds.WithLabelValues(metrics.OutcomeOK).Inc()
		return nil
	})
	if !submitted {
		c.logger.Warn("rebuild pool saturated, serving stale value", "key", key)
		c.release(lock, key)
	}
}

func (c *Client) release(lock *redislock.Lock, key string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := lock.Unlock(ctx); err != nil {
		c.logger.Warn("failed to release rebuild lock", "key", key, "error", err.Error())
	}
}

func (c *Client) readEntry(ctx context.Context, key string) (*logicalEntry, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, redisstore.Unavailable(err, "read cache key "+key)
	}
	var entry logicalEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, errs.Wrap(err, "decode cache entry "+key)
	}
	return &entry, nil
}

// readPlain reports found=true with a nil value for a tombstone.
func readPlain[T any](ctx context.Context, c *Client, key string) (*T, bool, error) {
	raw, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, redisstore.Unavailable(err, "read cache key "+key)
	}
	if raw == tombstone {
		return nil, true, nil
	}
	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return nil, false, errs.Wrap(err, "decode cache value "+key)
	}
	return &value, true, nil
}
