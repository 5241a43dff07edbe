//go:build unit

package seckill_test

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"seckill-service/internal/infra/idgen"
	"seckill-service/internal/infra/seckill"
	"seckill-service/internal/pkg/clock"
	"seckill-service/internal/pkg/errs"
	"seckill-service/tests/common/redistest"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stream = "stream.orders"

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	mr    *miniredis.Miniredis
	rdb   *redis.Client
	gate  *seckill.Gate
	clock *clock.MockClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr, rdb := redistest.NewMiniRedis(t)
	clk := clock.NewMockClock(now)
	gate := seckill.NewGate(rdb, idgen.NewGenerator(rdb, clk), clk, seckill.Options{
		Stream:          stream,
		IDTag:           "order",
		BreakerFailures: 3,
		BreakerTimeout:  time.Minute,
	})
	return &fixture{mr: mr, rdb: rdb, gate: gate, clock: clk}
}

func (f *fixture) preload(t *testing.T, voucherID int64, stock int) {
	t.Helper()
	require.NoError(t, f.gate.Preload(context.Background(), seckill.SaleState{
		VoucherID: voucherID,
		Stock:     stock,
		BeginAt:   now.Add(-time.Hour),
		EndAt:     now.Add(time.Hour),
	}))
}

func TestGate_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("admitted request decrements stock, marks the user and enqueues the intent", func(t *testing.T) {
		f := newFixture(t)
		f.preload(t, 7, 2)

		orderID, err := f.gate.Submit(ctx, 7, 1001)
		require.NoError(t, err)
		assert.Positive(t, orderID)

		stock, err := f.gate.Stock(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stock)

		member, err := f.rdb.SIsMember(ctx, "seckill:order:7", "1001").Result()
		require.NoError(t, err)
		assert.True(t, member)

		msgs, err := f.rdb.XRange(ctx, stream, "-", "+").Result()
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, "1001", msgs[0].Values["userId"])
		assert.Equal(t, "7", msgs[0].Values["voucherId"])
		assert.Equal(t, strconv.FormatInt(orderID, 10), msgs[0].Values["id"])
		assert.Equal(t, strconv.FormatInt(now.UnixMilli(), 10), msgs[0].Values["createdAt"])
	})

	t.Run("sold out", func(t *testing.T) {
		f := newFixture(t)
		f.preload(t, 7, 0)

		_, err := f.gate.Submit(ctx, 7, 1001)
		assert.ErrorIs(t, err, errs.ErrSoldOut)
		assert.False(t, f.mr.Exists(stream))
	})

	t.Run("same user twice is a duplicate", func(t *testing.T) {
		f := newFixture(t)
		f.preload(t, 7, 5)

		_, err := f.gate.Submit(ctx, 7, 1001)
		require.NoError(t, err)
		_, err = f.gate.Submit(ctx, 7, 1001)
		assert.ErrorIs(t, err, errs.ErrDuplicateOrder)

		stock, err := f.gate.Stock(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(4), stock)
	})

	t.Run("outside the sale window nothing is mutated", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.gate.Preload(ctx, seckill.SaleState{
			VoucherID: 7,
			Stock:     5,
			BeginAt:   now.Add(time.Hour),
			EndAt:     now.Add(2 * time.Hour),
		}))

		_, err := f.gate.Submit(ctx, 7, 1001)
		assert.ErrorIs(t, err, errs.ErrSaleNotOpen)

		f.clock.Add(3 * time.Hour)
		_, err = f.gate.Submit(ctx, 7, 1001)
		assert.ErrorIs(t, err, errs.ErrSaleNotOpen)

		stock, err := f.gate.Stock(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(5), stock)
		assert.False(t, f.mr.Exists("seckill:order:7"))
		assert.False(t, f.mr.Exists(stream))
	})

	t.Run("window bounds are inclusive", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.gate.Preload(ctx, seckill.SaleState{
			VoucherID: 7,
			Stock:     5,
			BeginAt:   now,
			EndAt:     now.Add(time.Minute),
		}))

		_, err := f.gate.Submit(ctx, 7, 1)
		require.NoError(t, err)

		f.clock.Set(now.Add(time.Minute))
		_, err = f.gate.Submit(ctx, 7, 2)
		require.NoError(t, err)
	})

	t.Run("voucher that was never preloaded", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.gate.Submit(ctx, 99, 1001)
		assert.ErrorIs(t, err, errs.ErrVoucherNotFound)
	})

	t.Run("store failure is unavailable and eventually opens the breaker", func(t *testing.T) {
		f := newFixture(t)
		f.preload(t, 7, 5)
		f.mr.Close()

		for range 5 {
			_, err := f.gate.Submit(ctx, 7, 1001)
			require.Error(t, err)
			assert.True(t, errs.Is(err, errs.ErrUnavailable))
		}
	})
}

func TestGate_ConcurrentAdmissionNeverOversells(t *testing.T) {
	const (
		stock = 10
		users = 200
	)
	ctx := context.Background()
	f := newFixture(t)
	f.preload(t, 7, stock)

	var admitted, soldOut atomic.Int32
	start := make(chan struct{})
	var wg sync.WaitGroup
	for u := range users {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			<-start
			_, err := f.gate.Submit(ctx, 7, userID)
			switch {
			case err == nil:
				admitted.Add(1)
			case errs.Is(err, errs.ErrSoldOut):
				soldOut.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(int64(u + 1))
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(stock), admitted.Load())
	assert.Equal(t, int32(users-stock), soldOut.Load())

	left, err := f.gate.Stock(ctx, 7)
	require.NoError(t, err)
	assert.Zero(t, left)

	length, err := f.rdb.XLen(ctx, stream).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(stock), length)
}

func TestGate_ConcurrentDuplicatesAdmitOnce(t *testing.T) {
	const attempts = 30
	ctx := context.Background()
	f := newFixture(t)
	f.preload(t, 7, 100)

	var admitted, duplicates atomic.Int32
	ids := make(chan int64, attempts)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			id, err := f.gate.Submit(ctx, 7, 1001)
			switch {
			case err == nil:
				admitted.Add(1)
				ids <- id
			case errs.Is(err, errs.ErrDuplicateOrder):
				duplicates.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), admitted.Load())
	assert.Equal(t, int32(attempts-1), duplicates.Load())

	left, err := f.gate.Stock(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(99), left)
}

func TestGate_Preload(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects an empty window", func(t *testing.T) {
		f := newFixture(t)
		err := f.gate.Preload(ctx, seckill.SaleState{VoucherID: 1, Stock: 1, BeginAt: now, EndAt: now})
		assert.ErrorIs(t, err, errs.ErrInvalidWindow)
	})

	t.Run("rejects negative stock", func(t *testing.T) {
		f := newFixture(t)
		err := f.gate.Preload(ctx, seckill.SaleState{VoucherID: 1, Stock: -1, BeginAt: now, EndAt: now.Add(time.Hour)})
		assert.ErrorIs(t, err, errs.ErrInvalidStock)
	})

	t.Run("restores admitted users so they stay duplicates", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.gate.Preload(ctx, seckill.SaleState{
			VoucherID:     7,
			Stock:         3,
			BeginAt:       now.Add(-time.Hour),
			EndAt:         now.Add(time.Hour),
			AdmittedUsers: []int64{1001, 1002},
		}))

		_, err := f.gate.Submit(ctx, 7, 1002)
		assert.ErrorIs(t, err, errs.ErrDuplicateOrder)
		_, err = f.gate.Submit(ctx, 7, 1003)
		assert.NoError(t, err)
	})

	t.Run("writes the window in unix millis", func(t *testing.T) {
		f := newFixture(t)
		f.preload(t, 7, 1)

		assert.Equal(t, strconv.FormatInt(now.Add(-time.Hour).UnixMilli(), 10), f.mr.HGet("seckill:voucher:7", "begin"))
		assert.Equal(t, strconv.FormatInt(now.Add(time.Hour).UnixMilli(), 10), f.mr.HGet("seckill:voucher:7", "end"))
	})
}
