package commands

import (
	"context"
	"log/slog"
	"time"

	domvoucher "seckill-service/internal/domain/voucher"
	"seckill-service/internal/infra"
	"seckill-service/internal/infra/redisstore"
	"seckill-service/internal/infra/seckill"
	"seckill-service/internal/pkg/clock"
	"seckill-service/internal/pkg/errs"
	"seckill-service/internal/usecase/shared"
)

//go:generate mockgen -source=voucher.go -destination=../../../tests/mock/commands/voucher_mock.go -package=commandsmock

type CreateSeckillVoucherRequest struct {
	ShopID      int64
	Title       string
	PayValue    int64
	ActualValue int64
	Stock       int
	BeginAt     time.Time
	EndAt       time.Time
}

type VoucherCommands interface {
	CreateSeckillVoucher(ctx context.Context, req CreateSeckillVoucherRequest) (int64, error)
	// Preload copies the stored sale state of a voucher into Redis.
	Preload(ctx context.Context, voucherID int64) error
}

type voucherUseCaseImpl struct {
	uow    shared.UnitOfWork
	gate   AdmissionGate
	cache  EntityCache
	clock  clock.Clock
	logger *slog.Logger
}

func NewVoucherUseCase(uow shared.UnitOfWork, gate AdmissionGate, cache EntityCache, clk clock.Clock, logger *slog.Logger) VoucherCommands {
	return &voucherUseCaseImpl{uow: uow, gate: gate, cache: cache, clock: clk, logger: logger}
}

func (uc *voucherUseCaseImpl) CreateSeckillVoucher(ctx context.Context, req CreateSeckillVoucherRequest) (int64, error) {
	v, err := domvoucher.NewSeckillVoucher(domvoucher.NewParams{
		ShopID:      req.ShopID,
		Title:       req.Title,
		PayValue:    req.PayValue,
		ActualValue: req.ActualValue,
		Stock:       req.Stock,
		BeginAt:     req.BeginAt,
		EndAt:       req.EndAt,
	}, uc.clock.Now())
	if err != nil {
		return 0, errs.Mark(err, errs.ErrDomainValidation)
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, derr := tx.Vouchers().Create(ctx, tx.DB(), v)
		if derr != nil {
			if infra.IsKind(derr, infra.KindForeignKeyViolated) {
				return errs.ErrShopNotFound
			}
			return derr
		}
		v.AssignID(id)
		return nil
	})
	if err != nil {
		return 0, err
	}

	// a lookup before creation may have left a tombstone under this id
	if derr := uc.cache.Delete(ctx, redisstore.VoucherCacheKey(v.ID())); derr != nil {
		uc.logger.Warn("failed to drop voucher cache entry", slog.Int64("voucher_id", v.ID()), slog.String("error", derr.Error()))
	}

	err = uc.gate.Preload(ctx, seckill.SaleState{
		VoucherID: v.ID(),
		Stock:     v.Stock(),
		BeginAt:   v.Window().Begin(),
		EndAt:     v.Window().End(),
	})
	if err != nil {
		uc.logger.Error("voucher stored but not preloaded",
			slog.Int64("voucher_id", v.ID()), slog.String("error", err.Error()))
		return v.ID(), err
	}
	return v.ID(), nil
}

// Preload re-seeds the sale from the database. Users already holding an order
// stay marked as admitted, so a Redis loss cannot let them buy twice.
func (uc *voucherUseCaseImpl) Preload(ctx context.Context, voucherID int64) error {
	snap, err := uc.uow.CommandReads().VoucherByID(ctx, voucherID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.ErrVoucherNotFound
		}
		return err
	}
	users, err := uc.uow.CommandReads().OrderedUserIDs(ctx, voucherID)
	if err != nil {
		return err
	}

	return uc.gate.Preload(ctx, seckill.SaleState{
		VoucherID:     snap.ID,
		Stock:         snap.Stock,
		BeginAt:       snap.BeginAt,
		EndAt:         snap.EndAt,
		AdmittedUsers: users,
	})
}
