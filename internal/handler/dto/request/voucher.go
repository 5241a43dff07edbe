package request

import (
	"time"

	"seckill-service/internal/usecase/commands"
)

// Money values are in cents.
type CreateSeckillVoucherRequest struct {
	ShopID      int64     `json:"shop_id" binding:"required,min=1"`
	Title       string    `json:"title" binding:"required,max=255"`
	PayValue    int64     `json:"pay_value" binding:"required,min=1"`
	ActualValue int64     `json:"actual_value" binding:"required,min=1"`
	Stock       int       `json:"stock" binding:"required,min=1"`
	BeginTime   time.Time `json:"begin_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required,gtfield=BeginTime"`
}

func (r *CreateSeckillVoucherRequest) ToCommand() commands.CreateSeckillVoucherRequest {
	return commands.CreateSeckillVoucherRequest{
		ShopID:      r.ShopID,
		Title:       r.Title,
		PayValue:    r.PayValue,
		ActualValue: r.ActualValue,
		Stock:       r.Stock,
		BeginAt:     r.BeginTime,
		EndAt:       r.EndTime,
	}
}
