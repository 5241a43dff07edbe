// Package idgen issues 64-bit ids that are unique per tag across every process
// sharing the same Redis.
//
// Layout: 1 sign bit (always 0), 31 bits of seconds since Epoch, 32 bits of a
// per-day counter.
package idgen

import (
	"context"
	"time"

	"seckill-service/internal/infra/redisstore"
	"seckill-service/internal/pkg/clock"

	"github.com/redis/go-redis/v9"
)

const (
	// Epoch is 2022-01-01T00:00:00Z.
	Epoch     int64 = 1640995200
	CountBits       = 32

	dateLayout = "2006:01:02"
)

type Generator struct {
	rdb   redis.Cmdable
	clock clock.Clock
}

func NewGenerator(rdb redis.Cmdable, clk clock.Clock) *Generator {
	return &Generator{rdb: rdb, clock: clk}
}

func (g *Generator) NextID(ctx context.Context, tag string) (int64, error) {
	now := g.clock.Now().UTC()
	timestamp := now.Unix() - Epoch

	count, err := g.rdb.Incr(ctx, CounterKey(tag, now)).Result()
	if err != nil {
		return 0, redisstore.Unavailable(err, "increment id counter")
	}

	return timestamp<<CountBits | count, nil
}

// CounterKey is the Redis key holding the counter of tag for the UTC day of t.
func CounterKey(tag string, t time.Time) string {
	return redisstore.IDCounterPrefix + tag + ":" + t.UTC().Format(dateLayout)
}

// Timestamp recovers the issue time (second precision) from an id.
func Timestamp(id int64) time.Time {
	return time.Unix(id>>CountBits+Epoch, 0).UTC()
}
