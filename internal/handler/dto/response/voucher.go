package response

import (
	"strconv"

	"seckill-service/internal/usecase/queries"
)

type VoucherResponse struct {
	ID          int64  `json:"id"`
	ShopID      int64  `json:"shop_id"`
	Title       string `json:"title"`
	PayValue    int64  `json:"pay_value"`
	ActualValue int64  `json:"actual_value"`
	Stock       int    `json:"stock"`
	BeginTime   int64  `json:"begin_time"`
	EndTime     int64  `json:"end_time"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

func FromVoucherView(v *queries.VoucherView) *VoucherResponse {
	return &VoucherResponse{
		ID:          v.ID,
		ShopID:      v.ShopID,
		Title:       v.Title,
		PayValue:    v.PayValue,
		ActualValue: v.ActualValue,
		Stock:       v.Stock,
		BeginTime:   v.BeginTime.Unix(),
		EndTime:     v.EndTime.Unix(),
		CreatedAt:   v.CreatedAt.Unix(),
		UpdatedAt:   v.UpdatedAt.Unix(),
	}
}

type CreateVoucherResponse struct {
	ID int64 `json:"id"`
}

// Order IDs exceed 2^53, so they are sent as strings.
type SeckillResponse struct {
	OrderID string `json:"order_id"`
}

func NewSeckillResponse(orderID int64) *SeckillResponse {
	return &SeckillResponse{OrderID: strconv.FormatInt(orderID, 10)}
}
