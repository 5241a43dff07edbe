package readstore

import (
	"context"

	"seckill-service/internal/infra"
	"seckill-service/internal/infra/db"
	"seckill-service/internal/pkg/pgconv"
	"seckill-service/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgtype"
)

const (
	getOrderViewSQL = `
SELECT id, user_id, voucher_id, status, created_at
FROM voucher_orders
WHERE id = $1`

	listOrderedUsersSQL = `
SELECT user_id FROM voucher_orders WHERE voucher_id = $1 ORDER BY user_id`
)

type OrderReadStore struct {
	db db.DBTX
}

func NewOrderReadStore(db db.DBTX) *OrderReadStore {
	return &OrderReadStore{db: db}
}

func (r *OrderReadStore) FindByID(ctx context.Context, id int64) (*queries.OrderView, error) {
	var (
		o         queries.OrderView
		createdAt pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, getOrderViewSQL, id).Scan(&o.ID, &o.UserID, &o.VoucherID, &o.Status, &createdAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get order view by id", err)
	}
	o.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	return &o, nil
}

func (r *OrderReadStore) ListUserIDsByVoucher(ctx context.Context, voucherID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, listOrderedUsersSQL, voucherID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list ordered users", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan ordered user", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate ordered users", err)
	}
	return ids, nil
}
