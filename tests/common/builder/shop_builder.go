//go:build unit || e2e

package builder

import (
	"time"

	domshop "seckill-service/internal/domain/shop"
	reqdto "seckill-service/internal/handler/dto/request"
)

type ShopBuilder struct {
	shop domshop.Shop
}

func NewShopBuilder() *ShopBuilder {
	now := time.Now().UTC().Truncate(time.Second)
	return &ShopBuilder{shop: domshop.Shop{
		ID:        1,
		Name:      "Tea House",
		TypeID:    1,
		Images:    "https://img.example.com/1.jpg",
		Area:      "Downtown",
		Address:   "1 Main Street",
		X:         120.149192,
		Y:         30.316078,
		AvgPrice:  80,
		Sold:      4215,
		Comments:  3035,
		Score:     37,
		OpenHours: "10:00-22:00",
		CreatedAt: now,
		UpdatedAt: now,
	}}
}

func (b *ShopBuilder) With(mutate func(*domshop.Shop)) *ShopBuilder {
	mutate(&b.shop)
	return b
}

func (b *ShopBuilder) Build() *domshop.Shop {
	s := b.shop
	return &s
}

func (b *ShopBuilder) BuildUpdateRequestDTO() reqdto.UpdateShopRequest {
	return reqdto.UpdateShopRequest{
		Name:      b.shop.Name,
		TypeID:    b.shop.TypeID,
		Images:    b.shop.Images,
		Area:      b.shop.Area,
		Address:   b.shop.Address,
		X:         b.shop.X,
		Y:         b.shop.Y,
		AvgPrice:  b.shop.AvgPrice,
		Score:     b.shop.Score,
		OpenHours: b.shop.OpenHours,
	}
}
