package commands

import (
	"context"

	"seckill-service/internal/domain/order"
	"seckill-service/internal/infra"
	"seckill-service/internal/pkg/errs"
	"seckill-service/internal/usecase/shared"
)

//go:generate mockgen -source=order.go -destination=../../../tests/mock/commands/order_mock.go -package=commandsmock

type OrderCommands interface {
	// CreateVoucherOrder makes an admitted intent durable. Replaying an intent
	// that is already stored returns ErrDuplicateOrder.
	CreateVoucherOrder(ctx context.Context, intent order.Intent) error
}

type orderUseCaseImpl struct {
	uow shared.UnitOfWork
}

func NewOrderUseCase(uow shared.UnitOfWork) OrderCommands {
	return &orderUseCaseImpl{uow: uow}
}

func (uc *orderUseCaseImpl) CreateVoucherOrder(ctx context.Context, intent order.Intent) error {
	o, err := order.FromIntent(intent)
	if err != nil {
		return errs.Mark(err, errs.ErrDomainValidation)
	}

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		n, derr := tx.Orders().CountByUserAndVoucher(ctx, tx.DB(), o.UserID(), o.VoucherID())
		if derr != nil {
			return derr
		}
		if n > 0 {
			return errs.ErrDuplicateOrder
		}

		ok, derr := tx.Vouchers().DecrementStock(ctx, tx.DB(), o.VoucherID())
		if derr != nil {
			return derr
		}
		if !ok {
			return errs.ErrSoldOut
		}

		if derr = tx.Orders().Create(ctx, tx.DB(), o); derr != nil {
			if infra.IsKind(derr, infra.KindDuplicateKey) {
				return errs.ErrDuplicateOrder
			}
			return derr
		}
		return nil
	})
}
