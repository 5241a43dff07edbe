package queries

import (
	"context"
	"time"

	"seckill-service/internal/domain/shop"
	"seckill-service/internal/infra"
	"seckill-service/internal/infra/cache"
	"seckill-service/internal/infra/redisstore"
	"seckill-service/internal/pkg/errs"
)

//go:generate mockgen -source=shop.go -destination=../../../tests/mock/queries/shop_mock.go -package=queriesmock

type ShopReadStore interface {
	FindByID(ctx context.Context, id int64) (*shop.Shop, error)
}

type ShopQueries interface {
	GetByID(ctx context.Context, id int64) (*shop.Shop, error)
}

type shopQueriesImpl struct {
	store ShopReadStore
	cache *cache.Client
	ttl   time.Duration
}

func NewShopQueries(store ShopReadStore, c *cache.Client, ttl time.Duration) ShopQueries {
	return &shopQueriesImpl{store: store, cache: c, ttl: ttl}
}

// GetByID serves hot shops from logically expiring entries. Only shops that
// were warmed up are known; anything else is reported as not found.
func (q *shopQueriesImpl) GetByID(ctx context.Context, id int64) (*shop.Shop, error) {
	s, err := cache.GetWithRebuild(ctx, q.cache, redisstore.ShopCacheKey(id), q.ttl, func(ctx context.Context) (*shop.Shop, error) {
		s, err := q.store.FindByID(ctx, id)
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return s, err
	})
	if err != nil {
		if errs.Is(err, errs.ErrCacheMiss) {
			return nil, ErrShopNotFound
		}
		return nil, err
	}
	return s, nil
}
