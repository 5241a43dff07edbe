// Package orderconsumer turns admitted intents queued on the order stream into
// durable orders. Delivery is at-least-once; the materializer's own duplicate
// check makes replays harmless.
package orderconsumer

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"seckill-service/internal/domain/order"
	"seckill-service/internal/infra/redislock"
	"seckill-service/internal/infra/redisstore"
	"seckill-service/internal/pkg/errs"
	"seckill-service/internal/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

// Stream entry fields written by the admission script
const (
	FieldUserID    = "userId"
	FieldVoucherID = "voucherId"
	FieldOrderID   = "id"
	FieldCreatedAt = "createdAt"
)

var errPoisonMessage = errs.New("malformed order intent")

type OrderMaterializer interface {
	CreateVoucherOrder(ctx context.Context, intent order.Intent) error
}

type Options struct {
	Stream string
	Group  string
	// Name must survive restarts, otherwise the pending list of the previous
	// incarnation is only reachable through ClaimIdle.
	Name             string
	Batch            int64
	Block            time.Duration
	RecoveryInterval time.Duration
	LockLease        time.Duration
	// 0 disables claiming entries from other members.
	ClaimIdle    time.Duration
	ErrorBackoff time.Duration
}

type Consumer struct {
	rdb    redis.Cmdable
	locks  *redislock.Service
	orders OrderMaterializer
	logger *slog.Logger
	opts   Options
}

func New(rdb redis.Cmdable, locks *redislock.Service, orders OrderMaterializer, logger *slog.Logger, opts Options) *Consumer {
	if opts.Batch <= 0 {
		opts.Batch = 1
	}
	if opts.Block <= 0 {
		opts.Block = 2 * time.Second
	}
	if opts.RecoveryInterval <= 0 {
		opts.RecoveryInterval = 30 * time.Second
	}
	if opts.LockLease <= 0 {
		opts.LockLease = 10 * time.Second
	}
	if opts.ErrorBackoff <= 0 {
		opts.ErrorBackoff = time.Second
	}
	return &Consumer{
		rdb:    rdb,
		locks:  locks,
		orders: orders,
		logger: logger.With(slog.String("consumer", opts.Name), slog.String("stream", opts.Stream)),
		opts:   opts,
	}
}

func (c *Consumer) Name() string {
	return c.opts.Name
}

// EnsureGroup creates the stream and the group reading it from the start.
func (c *Consumer) EnsureGroup(ctx context.Context) error {
	err := c.rdb.XGroupCreateMkStream(ctx, c.opts.Stream, c.opts.Group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return redisstore.Unavailable(err, "create consumer group "+c.opts.Group)
	}
	return nil
}

// Run recovers this consumer's pending entries, then reads new ones until ctx
// is cancelled. Recovery runs again after every failure and on each interval.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("order consumer started")
	defer c.logger.Info("order consumer stopped")

	for {
		err := c.EnsureGroup(ctx)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			return nil
		}
		c.logger.Error("failed to ensure consumer group", slog.String("error", err.Error()))
		if !c.sleep(ctx, c.opts.ErrorBackoff) {
			return nil
		}
	}

	needRecovery := true
	var lastRecovery time.Time
	for ctx.Err() == nil {
		if needRecovery || time.Since(lastRecovery) >= c.opts.RecoveryInterval {
			needRecovery = false
			lastRecovery = time.Now()
			if err := c.Recover(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				c.logger.Warn("pending recovery incomplete", slog.String("error", err.Error()))
				needRecovery = true
				c.sleep(ctx, c.opts.ErrorBackoff)
			}
		}

		if err := c.ProcessNew(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Warn("order intent left pending", slog.String("error", err.Error()))
			needRecovery = true
			c.sleep(ctx, c.opts.ErrorBackoff)
		}
	}
	return nil
}

// Recover claims abandoned entries (when enabled), replays this consumer's
// pending list and refreshes the pending gauge.
func (c *Consumer) Recover(ctx context.Context) error {
	if c.opts.ClaimIdle > 0 {
		if err := c.ClaimIdle(ctx); err != nil {
			return err
		}
	}
	err := c.RecoverPending(ctx)
	c.reportPending(ctx)
	return err
}

// ProcessNew reads one batch of never-delivered entries, blocking up to the
// configured duration. Entries that could not be finished stay pending and the
// first such failure is returned.
func (c *Consumer) ProcessNew(ctx context.Context) error {
	streams, err := c.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.opts.Group,
		Consumer: c.opts.Name,
		Streams:  []string{c.opts.Stream, ">"},
		Count:    c.opts.Batch,
		Block:    c.opts.Block,
	}).Result()
	if errs.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return redisstore.Unavailable(err, "read order stream")
	}
	return c.handleAll(ctx, streams)
}

// RecoverPending walks this consumer's pending list from the beginning. The
// cursor moves past entries that fail again, so one pass always terminates.
func (c *Consumer) RecoverPending(ctx context.Context) error {
	cursor := "0"
	var firstErr error
	for {
		streams, err := c.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.opts.Group,
			Consumer: c.opts.Name,
			Streams:  []string{c.opts.Stream, cursor},
			Count:    c.opts.Batch,
			Block:    -1,
		}).Result()
		if errs.Is(err, redis.Nil) {
			return firstErr
		}
		if err != nil {
			return redisstore.Unavailable(err, "read pending order intents")
		}
		if len(streams) == 0 || len(streams[0].Messages) == 0 {
			return firstErr
		}

		msgs := streams[0].Messages
		c.logger.Info("replaying pending order intents", slog.Int("count", len(msgs)))
		if err := c.handleAll(ctx, streams); err != nil && firstErr == nil {
			firstErr = err
		}
		cursor = msgs[len(msgs)-1].ID
	}
}

// ClaimIdle moves entries idle for longer than ClaimIdle from any member of the
// group, typically one that no longer exists, onto this consumer's pending list.
func (c *Consumer) ClaimIdle(ctx context.Context) error {
	start := "0-0"
	for {
		msgs, next, err := c.rdb.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   c.opts.Stream,
			Group:    c.opts.Group,
			Consumer: c.opts.Name,
			MinIdle:  c.opts.ClaimIdle,
			Start:    start,
			Count:    c.opts.Batch,
		}).Result()
		if err != nil {
			return redisstore.Unavailable(err, "claim idle order intents")
		}
		if len(msgs) > 0 {
			c.logger.Info("claimed idle order intents", slog.Int("count", len(msgs)))
		}
		if next == "" || next == "0-0" {
			return nil
		}
		start = next
	}
}

func (c *Consumer) handleAll(ctx context.Context, streams []redis.XStream) error {
	var firstErr error
	for _, stream := range streams {
		for _, msg := range stream.Messages {
			if err := c.handle(ctx, msg); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (c *Consumer) handle(ctx context.Context, msg redis.XMessage) error {
	log := c.logger.With(slog.String("message_id", msg.ID))

	intent, err := DecodeIntent(msg.Values)
	if err != nil {
		log.Error("dropping malformed order intent", slog.Any("values", msg.Values), slog.String("error", err.Error()))
		return c.ack(ctx, msg.ID, metrics.OutcomePoison)
	}
	log = log.With(slog.Int64("user_id", intent.UserID), slog.Int64("voucher_id", intent.VoucherID), slog.Int64("order_id", intent.OrderID))

	lock := c.locks.NewLock(redisstore.OrderLockResource(intent.UserID))
	ok, err := lock.TryLock(ctx, c.opts.LockLease)
	if err != nil {
		metrics.ConsumerMessages.WithLabelValues(metrics.OutcomeRetry).Inc()
		return err
	}
	if !ok {
		metrics.ConsumerMessages.WithLabelValues(metrics.OutcomeRetry).Inc()
		log.Debug("user order lock busy, leaving intent pending")
		return errs.Mark(errs.New("order lock busy for user "+strconv.FormatInt(intent.UserID, 10)), errs.ErrLockBusy)
	}
	defer func() {
		if uerr := lock.Unlock(context.WithoutCancel(ctx)); uerr != nil {
			log.Warn("failed to release order lock", slog.String("error", uerr.Error()))
		}
	}()

	err = c.orders.CreateVoucherOrder(ctx, intent)
	switch {
	case err == nil:
		log.Debug("order materialized")
		return c.ack(ctx, msg.ID, metrics.OutcomeAcked)
	case errs.Is(err, errs.ErrDuplicateOrder), errs.Is(err, errs.ErrSoldOut):
		log.Info("order intent settled without a new order", slog.String("reason", err.Error()))
		return c.ack(ctx, msg.ID, metrics.OutcomeTerminal)
	case errs.Is(err, order.ErrInvalidIntent):
		log.Error("dropping invalid order intent", slog.String("error", err.Error()))
		return c.ack(ctx, msg.ID, metrics.OutcomePoison)
	default:
		metrics.ConsumerMessages.WithLabelValues(metrics.OutcomeRetry).Inc()
		return errs.Wrap(err, "materialize order "+strconv.FormatInt(intent.OrderID, 10))
	}
}

func (c *Consumer) ack(ctx context.Context, id, outcome string) error {
	if err := c.rdb.XAck(context.WithoutCancel(ctx), c.opts.Stream, c.opts.Group, id).Err(); err != nil {
		metrics.ConsumerMessages.WithLabelValues(metrics.OutcomeRetry).Inc()
		return redisstore.Unavailable(err, "ack order intent "+id)
	}
	metrics.ConsumerMessages.WithLabelValues(outcome).Inc()
	return nil
}

func (c *Consumer) reportPending(ctx context.Context) {
	p, err := c.rdb.XPending(ctx, c.opts.Stream, c.opts.Group).Result()
	if err != nil {
		c.logger.Debug("failed to read pending summary", slog.String("error", err.Error()))
		return
	}
	metrics.ConsumerPending.Set(float64(p.Count))
}

func (c *Consumer) sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// DecodeIntent parses the field map the admission script writes.
func DecodeIntent(values map[string]any) (order.Intent, error) {
	userID, err := intField(values, FieldUserID)
	if err != nil {
		return order.Intent{}, err
	}
	voucherID, err := intField(values, FieldVoucherID)
	if err != nil {
		return order.Intent{}, err
	}
	orderID, err := intField(values, FieldOrderID)
	if err != nil {
		return order.Intent{}, err
	}
	createdAt, err := intField(values, FieldCreatedAt)
	if err != nil {
		return order.Intent{}, err
	}

	intent := order.Intent{
		OrderID:   orderID,
		UserID:    userID,
		VoucherID: voucherID,
		CreatedAt: time.UnixMilli(createdAt).UTC(),
	}
	if err := intent.Validate(); err != nil {
		return order.Intent{}, errs.Mark(err, errPoisonMessage)
	}
	return intent, nil
}

func intField(values map[string]any, field string) (int64, error) {
	raw, ok := values[field].(string)
	if !ok {
		return 0, errs.Mark(errs.Newf("field %q missing", field), errPoisonMessage)
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errs.Mark(errs.Wrapf(err, "field %q", field), errPoisonMessage)
	}
	return n, nil
}
