package queries

import (
	"time"

	"seckill-service/internal/pkg/errs"
)

var (
	ErrVoucherNotFound = errs.ErrVoucherNotFound
	ErrOrderNotFound   = errs.ErrOrderNotFound
	ErrShopNotFound    = errs.ErrShopNotFound
)

// VoucherView represents read-optimized seckill voucher data
type VoucherView struct {
	ID          int64     `json:"id"`
	ShopID      int64     `json:"shop_id"`
	Title       string    `json:"title"`
	PayValue    int64     `json:"pay_value"`
	ActualValue int64     `json:"actual_value"`
	Stock       int       `json:"stock"`
	BeginTime   time.Time `json:"begin_time"`
	EndTime     time.Time `json:"end_time"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OrderView represents a materialized voucher order
type OrderView struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	VoucherID int64     `json:"voucher_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
