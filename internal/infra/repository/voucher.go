package repository

import (
	"context"

	"seckill-service/internal/domain/voucher"
	"seckill-service/internal/infra"
	"seckill-service/internal/infra/db"
)

const (
	createVoucherSQL = `
INSERT INTO seckill_vouchers (shop_id, title, pay_value, actual_value, stock, begin_time, end_time, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id`

	// stock > 0 keeps a replayed or late intent from driving stock negative
	decrementStockSQL = `
UPDATE seckill_vouchers
SET stock = stock - 1, updated_at = NOW()
WHERE id = $1 AND stock > 0`
)

type VoucherRepository struct{}

func NewVoucherRepository() *VoucherRepository {
	return &VoucherRepository{}
}

func (r *VoucherRepository) Create(ctx context.Context, tx db.DBTX, v *voucher.SeckillVoucher) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, createVoucherSQL,
		v.ShopID(), v.Title(), v.PayValue(), v.ActualValue(), v.Stock(),
		v.Window().Begin(), v.Window().End(), v.CreatedAt(), v.UpdatedAt(),
	).Scan(&id)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to create seckill voucher", err)
	}
	return id, nil
}

func (r *VoucherRepository) DecrementStock(ctx context.Context, tx db.DBTX, voucherID int64) (bool, error) {
	tag, err := tx.Exec(ctx, decrementStockSQL, voucherID)
	if err != nil {
		return false, infra.WrapRepoErr("failed to decrement voucher stock", err)
	}
	return tag.RowsAffected() == 1, nil
}
