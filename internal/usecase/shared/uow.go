package shared

import (
	"context"
	"time"

	"seckill-service/internal/domain/order"
	"seckill-service/internal/domain/shop"
	"seckill-service/internal/domain/voucher"
	"seckill-service/internal/infra/db"
)

//go:generate mockgen -source=uow.go -destination=../../../tests/mock/shared/uow_mock.go -package=sharedmock

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Vouchers() VoucherRepository
	Orders() OrderRepository
	Shops() ShopRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	VoucherByID(ctx context.Context, id int64) (*VoucherSnapshot, error)
	OrderedUserIDs(ctx context.Context, voucherID int64) ([]int64, error)
	ShopByID(ctx context.Context, id int64) (*shop.Shop, error)
}

// Minimal snapshot for command read operations
type VoucherSnapshot struct {
	ID      int64
	ShopID  int64
	Stock   int
	BeginAt time.Time
	EndAt   time.Time
}

type VoucherRepository interface {
	Create(ctx context.Context, tx db.DBTX, v *voucher.SeckillVoucher) (int64, error)
	// DecrementStock reports false when no stock was left to take.
	DecrementStock(ctx context.Context, tx db.DBTX, voucherID int64) (bool, error)
}

type OrderRepository interface {
	CountByUserAndVoucher(ctx context.Context, tx db.DBTX, userID, voucherID int64) (int, error)
	Create(ctx context.Context, tx db.DBTX, o *order.Order) error
}

type ShopRepository interface {
	Update(ctx context.Context, tx db.DBTX, s *shop.Shop) error
}
