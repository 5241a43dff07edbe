package readstore

import (
	"context"

	"seckill-service/internal/infra"
	"seckill-service/internal/infra/db"
	"seckill-service/internal/pkg/pgconv"
	"seckill-service/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgtype"
)

const getVoucherViewSQL = `
SELECT id, shop_id, title, pay_value, actual_value, stock, begin_time, end_time, created_at, updated_at
FROM seckill_vouchers
WHERE id = $1`

type VoucherReadStore struct {
	db db.DBTX
}

func NewVoucherReadStore(db db.DBTX) *VoucherReadStore {
	return &VoucherReadStore{db: db}
}

func (r *VoucherReadStore) FindByID(ctx context.Context, id int64) (*queries.VoucherView, error) {
	var (
		v                                queries.VoucherView
		begin, end, createdAt, updatedAt pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, getVoucherViewSQL, id).Scan(
		&v.ID, &v.ShopID, &v.Title, &v.PayValue, &v.ActualValue, &v.Stock,
		&begin, &end, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("voucher not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get voucher view by id", err)
	}
	v.BeginTime = pgconv.TimeFromPgtype(begin)
	v.EndTime = pgconv.TimeFromPgtype(end)
	v.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	v.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &v, nil
}
