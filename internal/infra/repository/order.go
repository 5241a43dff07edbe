package repository

import (
	"context"

	"seckill-service/internal/domain/order"
	"seckill-service/internal/infra"
	"seckill-service/internal/infra/db"
)

const (
	countOrdersSQL = `
SELECT COUNT(*) FROM voucher_orders WHERE user_id = $1 AND voucher_id = $2`

	createOrderSQL = `
INSERT INTO voucher_orders (id, user_id, voucher_id, status, created_at)
VALUES ($1, $2, $3, $4, $5)`
)

type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

func (r *OrderRepository) CountByUserAndVoucher(ctx context.Context, tx db.DBTX, userID, voucherID int64) (int, error) {
	var n int
	if err := tx.QueryRow(ctx, countOrdersSQL, userID, voucherID).Scan(&n); err != nil {
		return 0, infra.WrapRepoErr("failed to count orders", err)
	}
	return n, nil
}

// Create reports KindDuplicateKey when the (user, voucher) pair or the id is
// already stored.
func (r *OrderRepository) Create(ctx context.Context, tx db.DBTX, o *order.Order) error {
	_, err := tx.Exec(ctx, createOrderSQL, o.ID(), o.UserID(), o.VoucherID(), string(o.Status()), o.CreatedAt())
	if err != nil {
		return infra.WrapRepoErr("failed to create voucher order", err)
	}
	return nil
}
