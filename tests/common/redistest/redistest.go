//go:build unit || e2e

package redistest

import (
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// NewMiniRedis starts an in-process Redis and a client bound to it. Both are
// closed when the test ends.
func NewMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{
		Addr:     mr.Addr(),
		PoolSize: 64,
	})
	t.Cleanup(func() {
		_ = rdb.Close()
	})
	require.NoError(t, rdb.Ping(t.Context()).Err())
	return mr, rdb
}

func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
