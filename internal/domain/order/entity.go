package order

import (
	"time"

	"seckill-service/internal/pkg/errs"
)

var ErrInvalidIntent = errs.New("invalid order intent")

type Status string

const (
	// Payment is handled elsewhere; every order created here starts unpaid.
	StatusUnpaid Status = "unpaid"
)

// Intent is an admitted purchase that has not been made durable yet. It is
// what travels on the order stream.
type Intent struct {
	OrderID   int64
	UserID    int64
	VoucherID int64
	CreatedAt time.Time
}

func (i Intent) Validate() error {
	if i.OrderID <= 0 || i.UserID <= 0 || i.VoucherID <= 0 {
		return ErrInvalidIntent
	}
	return nil
}

type Order struct {
	id        int64
	userID    int64
	voucherID int64
	status    Status
	createdAt time.Time
}

// FromIntent keeps the admission time as the order's creation time so a
// replayed intent yields the same row.
func FromIntent(i Intent) (*Order, error) {
	if err := i.Validate(); err != nil {
		return nil, err
	}
	return &Order{
		id:        i.OrderID,
		userID:    i.UserID,
		voucherID: i.VoucherID,
		status:    StatusUnpaid,
		createdAt: i.CreatedAt,
	}, nil
}

func Rehydrate(id, userID, voucherID int64, status Status, createdAt time.Time) *Order {
	return &Order{id: id, userID: userID, voucherID: voucherID, status: status, createdAt: createdAt}
}

func (o *Order) ID() int64            { return o.id }
func (o *Order) UserID() int64        { return o.userID }
func (o *Order) VoucherID() int64     { return o.voucherID }
func (o *Order) Status() Status       { return o.status }
func (o *Order) CreatedAt() time.Time { return o.createdAt }
