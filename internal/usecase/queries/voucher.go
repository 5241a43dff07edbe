package queries

import (
	"context"
	"time"

	"seckill-service/internal/infra"
	"seckill-service/internal/infra/cache"
	"seckill-service/internal/infra/redisstore"
	"seckill-service/internal/pkg/errs"
)

//go:generate mockgen -source=voucher.go -destination=../../../tests/mock/queries/voucher_mock.go -package=queriesmock

type VoucherReadStore interface {
	FindByID(ctx context.Context, id int64) (*VoucherView, error)
}

type VoucherQueries interface {
	GetByID(ctx context.Context, id int64) (*VoucherView, error)
}

type voucherQueriesImpl struct {
	store VoucherReadStore
	cache *cache.Client
	ttl   time.Duration
}

func NewVoucherQueries(store VoucherReadStore, c *cache.Client, ttl time.Duration) VoucherQueries {
	return &voucherQueriesImpl{store: store, cache: c, ttl: ttl}
}

// GetByID reads through the penetration guard, so unknown ids are answered
// from a cached tombstone until it expires.
func (q *voucherQueriesImpl) GetByID(ctx context.Context, id int64) (*VoucherView, error) {
	v, err := cache.Get(ctx, q.cache, redisstore.VoucherCacheKey(id), q.ttl, func(ctx context.Context) (*VoucherView, error) {
		v, err := q.store.FindByID(ctx, id)
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return v, err
	})
	if err != nil {
		if errs.Is(err, errs.ErrCacheMiss) {
			return nil, ErrVoucherNotFound
		}
		return nil, err
	}
	return v, nil
}
