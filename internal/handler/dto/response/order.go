package response

import (
	"strconv"

	"seckill-service/internal/usecase/queries"
)

type OrderResponse struct {
	ID        string `json:"id"`
	UserID    int64  `json:"user_id"`
	VoucherID int64  `json:"voucher_id"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

func FromOrderView(v *queries.OrderView) *OrderResponse {
	return &OrderResponse{
		ID:        strconv.FormatInt(v.ID, 10),
		UserID:    v.UserID,
		VoucherID: v.VoucherID,
		Status:    v.Status,
		CreatedAt: v.CreatedAt.Unix(),
	}
}
