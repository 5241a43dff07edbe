package readstore

import (
	"context"

	"seckill-service/internal/domain/shop"
	"seckill-service/internal/infra"
	"seckill-service/internal/infra/db"
	"seckill-service/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
)

const getShopSQL = `
SELECT id, name, type_id, images, area, address, x, y, avg_price, sold, comments, score, open_hours, created_at, updated_at
FROM shops
WHERE id = $1`

type ShopReadStore struct {
	db db.DBTX
}

func NewShopReadStore(db db.DBTX) *ShopReadStore {
	return &ShopReadStore{db: db}
}

func (r *ShopReadStore) FindByID(ctx context.Context, id int64) (*shop.Shop, error) {
	var (
		s                    shop.Shop
		createdAt, updatedAt pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, getShopSQL, id).Scan(
		&s.ID, &s.Name, &s.TypeID, &s.Images, &s.Area, &s.Address, &s.X, &s.Y,
		&s.AvgPrice, &s.Sold, &s.Comments, &s.Score, &s.OpenHours, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("shop not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get shop by id", err)
	}
	s.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	s.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &s, nil
}
