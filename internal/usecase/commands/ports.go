package commands

import (
	"context"
	"time"

	"seckill-service/internal/infra/seckill"
)

//go:generate mockgen -source=ports.go -destination=../../../tests/mock/commands/ports_mock.go -package=commandsmock

// AdmissionGate is the Redis side of a flash sale.
type AdmissionGate interface {
	Submit(ctx context.Context, voucherID, userID int64) (int64, error)
	Preload(ctx context.Context, s seckill.SaleState) error
}

// EntityCache is the write side of the read-through cache.
type EntityCache interface {
	SetWithLogicalExpire(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
