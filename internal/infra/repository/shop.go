package repository

import (
	"context"

	"seckill-service/internal/domain/shop"
	"seckill-service/internal/infra"
	"seckill-service/internal/infra/db"
	"seckill-service/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
)

const updateShopSQL = `
UPDATE shops
SET name = $2, type_id = $3, images = $4, area = $5, address = $6, x = $7, y = $8,
    avg_price = $9, score = $10, open_hours = $11, updated_at = NOW()
WHERE id = $1
RETURNING sold, comments, created_at, updated_at`

type ShopRepository struct{}

func NewShopRepository() *ShopRepository {
	return &ShopRepository{}
}

// Update writes the editable columns and copies the server-owned ones back
// into s so it can be cached as is.
func (r *ShopRepository) Update(ctx context.Context, tx db.DBTX, s *shop.Shop) error {
	var createdAt, updatedAt pgtype.Timestamptz
	err := tx.QueryRow(ctx, updateShopSQL,
		s.ID, s.Name, s.TypeID, s.Images, s.Area, s.Address, s.X, s.Y, s.AvgPrice, s.Score, s.OpenHours,
	).Scan(&s.Sold, &s.Comments, &createdAt, &updatedAt)
	if err != nil {
		return infra.WrapRepoErr("failed to update shop", err)
	}
	s.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	s.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return nil
}
