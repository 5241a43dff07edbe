package commands

import (
	"context"
	"log/slog"

	"seckill-service/internal/infra/seckill"
	"seckill-service/internal/pkg/errs"
	"seckill-service/internal/pkg/metrics"
)

//go:generate mockgen -source=seckill.go -destination=../../../tests/mock/commands/seckill_mock.go -package=commandsmock

type SeckillCommands interface {
	// Submit returns the id the order will be stored under once the queued
	// intent is materialized.
	Submit(ctx context.Context, voucherID, userID int64) (int64, error)
}

type seckillUseCaseImpl struct {
	gate   AdmissionGate
	logger *slog.Logger
}

func NewSeckillUseCase(gate AdmissionGate, logger *slog.Logger) SeckillCommands {
	return &seckillUseCaseImpl{gate: gate, logger: logger}
}

func (uc *seckillUseCaseImpl) Submit(ctx context.Context, voucherID, userID int64) (int64, error) {
	orderID, err := uc.gate.Submit(ctx, voucherID, userID)
	result := admissionLabel(err)
	metrics.Admissions.WithLabelValues(result).Inc()

	switch {
	case err == nil:
		uc.logger.Debug("seckill admitted",
			slog.Int64("voucher_id", voucherID), slog.Int64("user_id", userID), slog.Int64("order_id", orderID))
		return orderID, nil
	case result == labelUnavailable || result == labelError:
		uc.logger.Warn("seckill admission failed",
			slog.Int64("voucher_id", voucherID), slog.Int64("user_id", userID), slog.String("error", err.Error()))
	default:
		uc.logger.Debug("seckill rejected",
			slog.Int64("voucher_id", voucherID), slog.Int64("user_id", userID), slog.String("result", result))
	}
	return 0, err
}

const (
	labelUnavailable = "unavailable"
	labelError       = "error"
)

func admissionLabel(err error) string {
	switch {
	case err == nil:
		return seckill.ResultOK.String()
	case errs.Is(err, errs.ErrSoldOut):
		return seckill.ResultSoldOut.String()
	case errs.Is(err, errs.ErrDuplicateOrder):
		return seckill.ResultDuplicate.String()
	case errs.Is(err, errs.ErrSaleNotOpen):
		return seckill.ResultNotOpen.String()
	case errs.Is(err, errs.ErrVoucherNotFound):
		return seckill.ResultNotLoaded.String()
	case errs.Is(err, errs.ErrUnavailable):
		return labelUnavailable
	default:
		return labelError
	}
}
