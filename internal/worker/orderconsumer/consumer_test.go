//go:build unit

package orderconsumer_test

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"seckill-service/internal/domain/order"
	"seckill-service/internal/infra/redislock"
	"seckill-service/internal/pkg/errs"
	"seckill-service/internal/worker/orderconsumer"
	"seckill-service/tests/common/redistest"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	stream = "stream.orders"
	group  = "g1"
)

type key struct{ user, voucher int64 }

// fakeOrders behaves like the transactional materializer: one order per
// (user, voucher) and a finite stock per voucher.
type fakeOrders struct {
	mu     sync.Mutex
	orders map[key]order.Intent
	stock  map[int64]int
	calls  int
	// failures makes the next n calls fail after the order was stored
	failures int
	// fail makes every call fail before storing anything
	fail error
}

func newFakeOrders(stock map[int64]int) *fakeOrders {
	return &fakeOrders{orders: map[key]order.Intent{}, stock: stock}
}

func (f *fakeOrders) CreateVoucherOrder(_ context.Context, intent order.Intent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail != nil {
		return f.fail
	}
	k := key{intent.UserID, intent.VoucherID}
	if _, ok := f.orders[k]; ok {
		return errs.ErrDuplicateOrder
	}
	if f.stock[intent.VoucherID] <= 0 {
		return errs.ErrSoldOut
	}
	f.stock[intent.VoucherID]--
	f.orders[k] = intent
	if f.failures > 0 {
		f.failures--
		return errs.New("connection lost after commit")
	}
	return nil
}

func (f *fakeOrders) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

func (f *fakeOrders) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fixture struct {
	rdb   *redis.Client
	locks *redislock.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	_, rdb := redistest.NewMiniRedis(t)
	return &fixture{rdb: rdb, locks: redislock.NewService(rdb)}
}

func (f *fixture) consumer(name string, orders orderconsumer.OrderMaterializer, mutate ...func(*orderconsumer.Options)) *orderconsumer.Consumer {
	opts := orderconsumer.Options{
		Stream:           stream,
		Group:            group,
		Name:             name,
		Batch:            10,
		Block:            20 * time.Millisecond,
		RecoveryInterval: time.Hour,
		LockLease:        10 * time.Second,
		ErrorBackoff:     10 * time.Millisecond,
	}
	for _, m := range mutate {
		m(&opts)
	}
	return orderconsumer.New(f.rdb, f.locks, orders, redistest.DiscardLogger(), opts)
}

func (f *fixture) publish(t *testing.T, orderID, userID, voucherID int64) {
	t.Helper()
	err := f.rdb.XAdd(context.Background(), &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{
			orderconsumer.FieldUserID:    strconv.FormatInt(userID, 10),
			orderconsumer.FieldVoucherID: strconv.FormatInt(voucherID, 10),
			orderconsumer.FieldOrderID:   strconv.FormatInt(orderID, 10),
			orderconsumer.FieldCreatedAt: "1714564800000",
		},
	}).Err()
	require.NoError(t, err)
}

func (f *fixture) pending(t *testing.T) int64 {
	t.Helper()
	p, err := f.rdb.XPending(context.Background(), stream, group).Result()
	require.NoError(t, err)
	return p.Count
}

func TestConsumer_EnsureGroupIsIdempotent(t *testing.T) {
	f := newFixture(t)
	c := f.consumer("c1", newFakeOrders(nil))

	require.NoError(t, c.EnsureGroup(context.Background()))
	require.NoError(t, c.EnsureGroup(context.Background()))
}

func TestConsumer_ProcessNew(t *testing.T) {
	ctx := context.Background()

	t.Run("materialized intents are acked", func(t *testing.T) {
		f := newFixture(t)
		orders := newFakeOrders(map[int64]int{3: 10})
		c := f.consumer("c1", orders)
		require.NoError(t, c.EnsureGroup(ctx))

		f.publish(t, 1001, 7, 3)
		f.publish(t, 1002, 8, 3)

		require.NoError(t, c.ProcessNew(ctx))
		assert.Equal(t, 2, orders.count())
		assert.Equal(t, int64(0), f.pending(t))
	})

	t.Run("decoded intent carries every field", func(t *testing.T) {
		f := newFixture(t)
		orders := newFakeOrders(map[int64]int{3: 1})
		c := f.consumer("c1", orders)
		require.NoError(t, c.EnsureGroup(ctx))

		f.publish(t, 1001, 7, 3)
		require.NoError(t, c.ProcessNew(ctx))

		got := orders.orders[key{7, 3}]
		assert.Equal(t, order.Intent{
			OrderID:   1001,
			UserID:    7,
			VoucherID: 3,
			CreatedAt: time.UnixMilli(1714564800000).UTC(),
		}, got)
	})

	t.Run("no new entries is not an error", func(t *testing.T) {
		f := newFixture(t)
		c := f.consumer("c1", newFakeOrders(nil))
		require.NoError(t, c.EnsureGroup(ctx))

		assert.NoError(t, c.ProcessNew(ctx))
	})

	t.Run("duplicate and sold out are terminal", func(t *testing.T) {
		f := newFixture(t)
		orders := newFakeOrders(map[int64]int{3: 1})
		c := f.consumer("c1", orders)
		require.NoError(t, c.EnsureGroup(ctx))

		f.publish(t, 1001, 7, 3)
		f.publish(t, 1002, 7, 3) // duplicate
		f.publish(t, 1003, 8, 3) // sold out

		require.NoError(t, c.ProcessNew(ctx))
		assert.Equal(t, 1, orders.count())
		assert.Equal(t, 3, orders.callCount())
		assert.Equal(t, int64(0), f.pending(t))
	})

	t.Run("malformed entries are acked without reaching the materializer", func(t *testing.T) {
		f := newFixture(t)
		orders := newFakeOrders(map[int64]int{3: 1})
		c := f.consumer("c1", orders)
		require.NoError(t, c.EnsureGroup(ctx))

		require.NoError(t, f.rdb.XAdd(ctx, &redis.XAddArgs{
			Stream: stream,
			Values: map[string]any{orderconsumer.FieldUserID: "not-a-number"},
		}).Err())
		f.publish(t, 0, 7, 3) // zero order id

		require.NoError(t, c.ProcessNew(ctx))
		assert.Equal(t, 0, orders.callCount())
		assert.Equal(t, int64(0), f.pending(t))
	})

	t.Run("transient failure leaves the entry pending", func(t *testing.T) {
		f := newFixture(t)
		orders := newFakeOrders(map[int64]int{3: 1})
		orders.fail = errs.New("database is down")
		c := f.consumer("c1", orders)
		require.NoError(t, c.EnsureGroup(ctx))

		f.publish(t, 1001, 7, 3)

		assert.Error(t, c.ProcessNew(ctx))
		assert.Equal(t, int64(1), f.pending(t))

		orders.mu.Lock()
		orders.fail = nil
		orders.mu.Unlock()

		require.NoError(t, c.RecoverPending(ctx))
		assert.Equal(t, 1, orders.count())
		assert.Equal(t, int64(0), f.pending(t))
	})

	t.Run("busy user lock leaves the entry pending", func(t *testing.T) {
		f := newFixture(t)
		orders := newFakeOrders(map[int64]int{3: 1})
		c := f.consumer("c1", orders)
		require.NoError(t, c.EnsureGroup(ctx))

		other := redislock.NewService(f.rdb).NewLock("order:7")
		ok, err := other.TryLock(ctx, time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		f.publish(t, 1001, 7, 3)

		err = c.ProcessNew(ctx)
		assert.True(t, errs.Is(err, errs.ErrLockBusy))
		assert.Equal(t, 0, orders.callCount())
		assert.Equal(t, int64(1), f.pending(t))

		require.NoError(t, other.Unlock(ctx))
		require.NoError(t, c.RecoverPending(ctx))
		assert.Equal(t, 1, orders.count())
		assert.Equal(t, int64(0), f.pending(t))
	})
}

// A crash between the database commit and XACK must not produce a second
// order when the entry is replayed.
func TestConsumer_ReplayAfterCrashCreatesOneOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	orders := newFakeOrders(map[int64]int{3: 5})
	orders.failures = 1

	first := f.consumer("c1", orders)
	require.NoError(t, first.EnsureGroup(ctx))
	f.publish(t, 1001, 7, 3)

	require.Error(t, first.ProcessNew(ctx))
	require.Equal(t, 1, orders.count())
	require.Equal(t, int64(1), f.pending(t))

	// restarted process, same consumer name
	restarted := f.consumer("c1", orders)
	require.NoError(t, restarted.RecoverPending(ctx))

	assert.Equal(t, 1, orders.count())
	assert.Equal(t, 4, orders.stock[3])
	assert.Equal(t, int64(0), f.pending(t))
}

func TestConsumer_RecoverPendingSkipsEntriesThatFailAgain(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	orders := newFakeOrders(map[int64]int{3: 5})
	orders.fail = errs.New("database is down")

	c := f.consumer("c1", orders, func(o *orderconsumer.Options) { o.Batch = 1 })
	require.NoError(t, c.EnsureGroup(ctx))
	f.publish(t, 1001, 7, 3)
	f.publish(t, 1002, 8, 3)
	require.Error(t, c.ProcessNew(ctx))
	require.Error(t, c.ProcessNew(ctx))

	err := c.RecoverPending(ctx)
	assert.Error(t, err)
	assert.Equal(t, 4, orders.callCount())
	assert.Equal(t, int64(2), f.pending(t))
}

func TestConsumer_ClaimIdleAdoptsEntriesOfDeadMembers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	orders := newFakeOrders(map[int64]int{3: 5})
	orders.fail = errs.New("database is down")

	dead := f.consumer("dead", orders)
	require.NoError(t, dead.EnsureGroup(ctx))
	f.publish(t, 1001, 7, 3)
	require.Error(t, dead.ProcessNew(ctx))

	orders.mu.Lock()
	orders.fail = nil
	orders.mu.Unlock()
	time.Sleep(20 * time.Millisecond)

	heir := f.consumer("heir", orders, func(o *orderconsumer.Options) { o.ClaimIdle = time.Millisecond })
	require.NoError(t, heir.Recover(ctx))

	assert.Equal(t, 1, orders.count())
	assert.Equal(t, int64(0), f.pending(t))
}

func TestConsumer_RunUntilCancelled(t *testing.T) {
	f := newFixture(t)
	orders := newFakeOrders(map[int64]int{3: 100})
	c := f.consumer("c1", orders)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	require.Eventually(t, func() bool {
		return f.rdb.Exists(context.Background(), stream).Val() == 1
	}, 2*time.Second, 10*time.Millisecond)

	for i := range int64(5) {
		f.publish(t, 2000+i, 10+i, 3)
	}

	require.Eventually(t, func() bool { return orders.count() == 5 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}
	assert.Equal(t, int64(0), f.pending(t))
}

func TestPool_StartAndStop(t *testing.T) {
	f := newFixture(t)
	orders := newFakeOrders(map[int64]int{3: 100})
	pool := orderconsumer.NewPool(f.rdb, f.locks, orders, redistest.DiscardLogger(), orderconsumer.Options{
		Stream:       stream,
		Group:        group,
		Name:         "host",
		Batch:        5,
		Block:        20 * time.Millisecond,
		ErrorBackoff: 10 * time.Millisecond,
	}, 3)

	names := make([]string, 0, 3)
	for _, c := range pool.Consumers() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"host-0", "host-1", "host-2"}, names)

	require.NoError(t, pool.Start(context.Background()))
	for i := range int64(30) {
		f.publish(t, 3000+i, 100+i, 3)
	}
	require.Eventually(t, func() bool { return orders.count() == 30 }, 3*time.Second, 10*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, pool.Stop(stopCtx))
	assert.Equal(t, int64(0), f.pending(t))
}

func TestDecodeIntent(t *testing.T) {
	valid := map[string]any{"userId": "7", "voucherId": "3", "id": "1001", "createdAt": "1714564800000"}

	intent, err := orderconsumer.DecodeIntent(valid)
	require.NoError(t, err)
	assert.Equal(t, int64(1001), intent.OrderID)

	for _, field := range []string{"userId", "voucherId", "id", "createdAt"} {
		t.Run("missing "+field, func(t *testing.T) {
			values := map[string]any{}
			for k, v := range valid {
				if k != field {
					values[k] = v
				}
			}
			_, err := orderconsumer.DecodeIntent(values)
			assert.Error(t, err)
		})
	}
}
