// Package seckill decides flash-sale admission atomically inside Redis and
// hands admitted intents to the order stream.
package seckill

import (
	"context"
	"strconv"
	"time"

	"seckill-service/internal/infra/redisstore"
	"seckill-service/internal/pkg/clock"
	"seckill-service/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

type IDGenerator interface {
	NextID(ctx context.Context, tag string) (int64, error)
}

type Options struct {
	Stream          string
	IDTag           string
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// SaleState is what Preload writes for one voucher.
type SaleState struct {
	VoucherID int64
	Stock     int
	BeginAt   time.Time
	EndAt     time.Time
	// users already holding an order, when re-syncing after a Redis loss
	AdmittedUsers []int64
}

type Gate struct {
	rdb     redis.Cmdable
	ids     IDGenerator
	clock   clock.Clock
	breaker *gobreaker.CircuitBreaker
	opts    Options
}

func NewGate(rdb redis.Cmdable, ids IDGenerator, clk clock.Clock, opts Options) *Gate {
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = 5
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "seckill-admission",
		Timeout: opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.BreakerFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errs.Is(err, context.Canceled)
		},
	})
	return &Gate{
		rdb:     rdb,
		ids:     ids,
		clock:   clk,
		breaker: breaker,
		opts:    opts,
	}
}

// Submit admits userID to the sale of voucherID. On success the intent is on
// the stream and the returned order id is what the order will be stored under.
//
// The id is allocated before the script runs, so rejected requests leave gaps
// in the id sequence.
func (g *Gate) Submit(ctx context.Context, voucherID, userID int64) (int64, error) {
	out, err := g.breaker.Execute(func() (any, error) {
		orderID, err := g.ids.NextID(ctx, g.opts.IDTag)
		if err != nil {
			return nil, err
		}

		keys := []string{
			redisstore.SeckillStockKey(voucherID),
			redisstore.SeckillOrderKey(voucherID),
			redisstore.SeckillSaleKey(voucherID),
			g.opts.Stream,
		}
		code, err := admissionScript.Run(ctx, g.rdb, keys,
			userID, voucherID, orderID, g.clock.Now().UnixMilli(),
		).Int64()
		if err != nil {
			return nil, redisstore.Unavailable(err, "run admission script")
		}
		return admission{orderID: orderID, result: Result(code)}, nil
	})
	if err != nil {
		if errs.Is(err, gobreaker.ErrOpenState) || errs.Is(err, gobreaker.ErrTooManyRequests) {
			return 0, errs.Mark(errs.Wrap(err, "admission breaker"), errs.ErrUnavailable)
		}
		return 0, err
	}

	a := out.(admission)
	switch a.result {
	case ResultOK:
		return a.orderID, nil
	case ResultSoldOut:
		return 0, errs.ErrSoldOut
	case ResultDuplicate:
		return 0, errs.ErrDuplicateOrder
	case ResultNotOpen:
		return 0, errs.ErrSaleNotOpen
	case ResultNotLoaded:
		return 0, errs.ErrVoucherNotFound
	default:
		return 0, errs.Newf("unexpected admission result %d", int64(a.result))
	}
}

// Preload (re)initialises the Redis side of a sale.
func (g *Gate) Preload(ctx context.Context, s SaleState) error {
	if s.Stock < 0 {
		return errs.ErrInvalidStock
	}
	if !s.BeginAt.Before(s.EndAt) {
		return errs.ErrInvalidWindow
	}

	_, err := g.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisstore.SeckillStockKey(s.VoucherID), s.Stock, 0)
		pipe.HSet(ctx, redisstore.SeckillSaleKey(s.VoucherID),
			redisstore.SaleFieldBegin, s.BeginAt.UnixMilli(),
			redisstore.SaleFieldEnd, s.EndAt.UnixMilli(),
		)
		pipe.Del(ctx, redisstore.SeckillOrderKey(s.VoucherID))
		if len(s.AdmittedUsers) > 0 {
			members := make([]any, 0, len(s.AdmittedUsers))
			for _, u := range s.AdmittedUsers {
				members = append(members, strconv.FormatInt(u, 10))
			}
			pipe.SAdd(ctx, redisstore.SeckillOrderKey(s.VoucherID), members...)
		}
		return nil
	})
	if err != nil {
		return redisstore.Unavailable(err, "preload voucher "+strconv.FormatInt(s.VoucherID, 10))
	}
	return nil
}

// Stock reports the remaining admission stock held in Redis.
func (g *Gate) Stock(ctx context.Context, voucherID int64) (int64, error) {
	n, err := g.rdb.Get(ctx, redisstore.SeckillStockKey(voucherID)).Int64()
	if errs.Is(err, redis.Nil) {
		return 0, errs.ErrVoucherNotFound
	}
	if err != nil {
		return 0, redisstore.Unavailable(err, "read stock")
	}
	return n, nil
}

type admission struct {
	orderID int64
	result  Result
}
