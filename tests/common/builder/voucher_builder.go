//go:build unit || e2e

package builder

import (
	"time"

	domvoucher "seckill-service/internal/domain/voucher"
	reqdto "seckill-service/internal/handler/dto/request"
	"seckill-service/internal/usecase/queries"
)

type VoucherBuilder struct {
	ID          int64
	ShopID      int64
	Title       string
	PayValue    int64
	ActualValue int64
	Stock       int
	BeginAt     time.Time
	EndAt       time.Time
	Now         time.Time
}

func NewVoucherBuilder() *VoucherBuilder {
	now := time.Now().UTC().Truncate(time.Second)
	return &VoucherBuilder{
		ID:          1,
		ShopID:      1,
		Title:       "100 off 50",
		PayValue:    5000,
		ActualValue: 10000,
		Stock:       100,
		BeginAt:     now.Add(time.Hour),
		EndAt:       now.Add(25 * time.Hour),
		Now:         now,
	}
}

func (b *VoucherBuilder) With(mutate func(*VoucherBuilder)) *VoucherBuilder {
	mutate(b)
	return b
}

func (b *VoucherBuilder) BuildDomain() (*domvoucher.SeckillVoucher, error) {
	return domvoucher.NewSeckillVoucher(domvoucher.NewParams{
		ShopID:      b.ShopID,
		Title:       b.Title,
		PayValue:    b.PayValue,
		ActualValue: b.ActualValue,
		Stock:       b.Stock,
		BeginAt:     b.BeginAt,
		EndAt:       b.EndAt,
	}, b.Now)
}

func (b *VoucherBuilder) BuildRehydrated() *domvoucher.SeckillVoucher {
	return domvoucher.Rehydrate(b.ID, b.ShopID, b.Title, b.PayValue, b.ActualValue, b.Stock, b.BeginAt, b.EndAt, b.Now, b.Now)
}

func (b *VoucherBuilder) BuildCreateRequestDTO() reqdto.CreateSeckillVoucherRequest {
	return reqdto.CreateSeckillVoucherRequest{
		ShopID:      b.ShopID,
		Title:       b.Title,
		PayValue:    b.PayValue,
		ActualValue: b.ActualValue,
		Stock:       b.Stock,
		BeginTime:   b.BeginAt,
		EndTime:     b.EndAt,
	}
}

func (b *VoucherBuilder) BuildView() *queries.VoucherView {
	return &queries.VoucherView{
		ID:          b.ID,
		ShopID:      b.ShopID,
		Title:       b.Title,
		PayValue:    b.PayValue,
		ActualValue: b.ActualValue,
		Stock:       b.Stock,
		BeginTime:   b.BeginAt,
		EndTime:     b.EndAt,
		CreatedAt:   b.Now,
		UpdatedAt:   b.Now,
	}
}
