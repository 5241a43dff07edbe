package commands

import (
	"context"
	"log/slog"
	"time"

	"seckill-service/internal/domain/shop"
	"seckill-service/internal/infra"
	"seckill-service/internal/infra/redisstore"
	"seckill-service/internal/pkg/errs"
	"seckill-service/internal/usecase/shared"
)

//go:generate mockgen -source=shop.go -destination=../../../tests/mock/commands/shop_mock.go -package=commandsmock

type ShopCommands interface {
	Update(ctx context.Context, s *shop.Shop) error
	// WarmUp writes logically expiring entries for ids and returns how many
	// shops were found.
	WarmUp(ctx context.Context, ids []int64, ttl time.Duration) (int, error)
}

type shopUseCaseImpl struct {
	uow    shared.UnitOfWork
	cache  EntityCache
	ttl    time.Duration
	logger *slog.Logger
}

func NewShopUseCase(uow shared.UnitOfWork, cache EntityCache, ttl time.Duration, logger *slog.Logger) ShopCommands {
	return &shopUseCaseImpl{uow: uow, cache: cache, ttl: ttl, logger: logger}
}

// Update stores s and then overwrites its cache entry with a fresh expiry.
// A failed cache write is logged; the entry is refreshed by the next rebuild.
func (uc *shopUseCaseImpl) Update(ctx context.Context, s *shop.Shop) error {
	if err := s.Validate(); err != nil {
		return errs.Mark(err, errs.ErrDomainValidation)
	}

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		derr := tx.Shops().Update(ctx, tx.DB(), s)
		if infra.IsKind(derr, infra.KindNotFound) {
			return errs.ErrShopNotFound
		}
		return derr
	})
	if err != nil {
		return err
	}

	key := redisstore.ShopCacheKey(s.ID)
	if cerr := uc.cache.SetWithLogicalExpire(ctx, key, s, uc.ttl); cerr != nil {
		uc.logger.Warn("failed to refresh shop cache", slog.String("key", key), slog.String("error", cerr.Error()))
	}
	return nil
}

func (uc *shopUseCaseImpl) WarmUp(ctx context.Context, ids []int64, ttl time.Duration) (int, error) {
	if ttl <= 0 {
		ttl = uc.ttl
	}

	warmed := 0
	for _, id := range ids {
		s, err := uc.uow.CommandReads().ShopByID(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				uc.logger.Info("skipping unknown shop", slog.Int64("shop_id", id))
				continue
			}
			return warmed, err
		}
		if err := uc.cache.SetWithLogicalExpire(ctx, redisstore.ShopCacheKey(id), s, ttl); err != nil {
			return warmed, err
		}
		warmed++
	}
	return warmed, nil
}
