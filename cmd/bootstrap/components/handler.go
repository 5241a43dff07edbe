package components

import (
	"seckill-service/internal/handler"
	"seckill-service/internal/handler/api"
	"seckill-service/internal/handler/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewVoucherHandler,
		api.NewOrderHandler,
		api.NewShopHandler,
		middleware.NewAuthMiddleware,
		func(v *api.VoucherHandler, o *api.OrderHandler, s *api.ShopHandler, auth *middleware.AuthMiddleware) handler.Handlers {
			return handler.Handlers{Voucher: v, Order: o, Shop: s, Auth: auth}
		},
		func() *gin.Engine {
			return gin.New()
		},
	),
	fx.Invoke(handler.NewRouter),
)
