package request

import (
	domshop "seckill-service/internal/domain/shop"
)

type UpdateShopRequest struct {
	Name      string  `json:"name" binding:"required,max=128"`
	TypeID    int64   `json:"type_id" binding:"required,min=1"`
	Images    string  `json:"images" binding:"max=1024"`
	Area      string  `json:"area" binding:"max=128"`
	Address   string  `json:"address" binding:"required,max=255"`
	X         float64 `json:"x" binding:"min=-180,max=180"`
	Y         float64 `json:"y" binding:"min=-90,max=90"`
	AvgPrice  int64   `json:"avg_price" binding:"min=0"`
	Score     int     `json:"score" binding:"min=0,max=50"`
	OpenHours string  `json:"open_hours" binding:"max=32"`
}

func (r *UpdateShopRequest) ToDomain(id int64) *domshop.Shop {
	return &domshop.Shop{
		ID:        id,
		Name:      r.Name,
		TypeID:    r.TypeID,
		Images:    r.Images,
		Area:      r.Area,
		Address:   r.Address,
		X:         r.X,
		Y:         r.Y,
		AvgPrice:  r.AvgPrice,
		Score:     r.Score,
		OpenHours: r.OpenHours,
	}
}
