package voucher

import (
	"strings"
	"time"

	"seckill-service/internal/pkg/errs"
)

var (
	ErrEmptyTitle   = errs.New("voucher title is required")
	ErrInvalidPrice = errs.New("pay value must be positive and not exceed the actual value")
	ErrInvalidShop  = errs.New("shop id must be positive")
)

const MaxTitleLength = 255

// SeckillVoucher is a voucher sold in a flash sale: fixed stock, sold only
// inside its window.
type SeckillVoucher struct {
	id          int64
	shopID      int64
	title       string
	payValue    int64
	actualValue int64
	stock       int
	window      SaleWindow
	createdAt   time.Time
	updatedAt   time.Time
}

type NewParams struct {
	ShopID      int64
	Title       string
	PayValue    int64
	ActualValue int64
	Stock       int
	BeginAt     time.Time
	EndAt       time.Time
}

func NewSeckillVoucher(p NewParams, now time.Time) (*SeckillVoucher, error) {
	if p.ShopID <= 0 {
		return nil, ErrInvalidShop
	}
	title := strings.TrimSpace(p.Title)
	if title == "" || len(title) > MaxTitleLength {
		return nil, ErrEmptyTitle
	}
	if p.PayValue <= 0 || p.ActualValue < p.PayValue {
		return nil, ErrInvalidPrice
	}
	if p.Stock <= 0 {
		return nil, errs.ErrInvalidStock
	}
	window, err := NewSaleWindow(p.BeginAt, p.EndAt)
	if err != nil {
		return nil, err
	}
	if !window.End().After(now) {
		return nil, errs.Mark(errs.New("sale window already ended"), errs.ErrInvalidWindow)
	}

	return &SeckillVoucher{
		shopID:      p.ShopID,
		title:       title,
		payValue:    p.PayValue,
		actualValue: p.ActualValue,
		stock:       p.Stock,
		window:      window,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Rehydrate rebuilds a voucher from storage without re-validating it.
func Rehydrate(id, shopID int64, title string, payValue, actualValue int64, stock int, beginAt, endAt, createdAt, updatedAt time.Time) *SeckillVoucher {
	return &SeckillVoucher{
		id:          id,
		shopID:      shopID,
		title:       title,
		payValue:    payValue,
		actualValue: actualValue,
		stock:       stock,
		window:      SaleWindow{begin: beginAt, end: endAt},
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (v *SeckillVoucher) ID() int64            { return v.id }
func (v *SeckillVoucher) ShopID() int64        { return v.shopID }
func (v *SeckillVoucher) Title() string        { return v.title }
func (v *SeckillVoucher) PayValue() int64      { return v.payValue }
func (v *SeckillVoucher) ActualValue() int64   { return v.actualValue }
func (v *SeckillVoucher) Stock() int           { return v.stock }
func (v *SeckillVoucher) Window() SaleWindow   { return v.window }
func (v *SeckillVoucher) CreatedAt() time.Time { return v.createdAt }
func (v *SeckillVoucher) UpdatedAt() time.Time { return v.updatedAt }

func (v *SeckillVoucher) AssignID(id int64) {
	v.id = id
}
