package response

import (
	domshop "seckill-service/internal/domain/shop"
)

type ShopResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	TypeID    int64   `json:"type_id"`
	Images    string  `json:"images"`
	Area      string  `json:"area"`
	Address   string  `json:"address"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	AvgPrice  int64   `json:"avg_price"`
	Sold      int     `json:"sold"`
	Comments  int     `json:"comments"`
	Score     int     `json:"score"`
	OpenHours string  `json:"open_hours"`
	UpdatedAt int64   `json:"updated_at"`
}

func FromShop(s *domshop.Shop) *ShopResponse {
	return &ShopResponse{
		ID:        s.ID,
		Name:      s.Name,
		TypeID:    s.TypeID,
		Images:    s.Images,
		Area:      s.Area,
		Address:   s.Address,
		X:         s.X,
		Y:         s.Y,
		AvgPrice:  s.AvgPrice,
		Sold:      s.Sold,
		Comments:  s.Comments,
		Score:     s.Score,
		OpenHours: s.OpenHours,
		UpdatedAt: s.UpdatedAt.Unix(),
	}
}
