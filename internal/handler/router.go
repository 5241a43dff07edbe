package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"seckill-service/internal/domain/user"
	"seckill-service/internal/handler/api"
	"seckill-service/internal/handler/middleware"
	"seckill-service/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Voucher *api.VoucherHandler
	Order   *api.OrderHandler
	Shop    *api.ShopHandler
	Auth    *middleware.AuthMiddleware
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *slog.Logger, h Handlers) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, h)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.Metrics())
	engine.Use(middleware.LoggingMiddleware(logger, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	adminOnly := []gin.HandlerFunc{h.Auth.RequireAuth(), h.Auth.RequireRoleAtLeast(user.RoleAdmin)}
	authOnly := []gin.HandlerFunc{h.Auth.RequireAuth()}

	apiGroup := engine.Group("/api")
	{
		vouchers := apiGroup.Group("/vouchers")
		addRoutes(vouchers, []route{
			{Method: http.MethodPost, Path: "/seckill", Handler: h.Voucher.CreateSeckill, Mw: adminOnly},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Voucher.Get},
			{Method: http.MethodPost, Path: "/:id/seckill", Handler: h.Voucher.Seckill, Mw: authOnly},
		})

		orders := apiGroup.Group("/orders")
		orders.Use(h.Auth.RequireAuth())
		addRoutes(orders, []route{
			{Method: http.MethodGet, Path: "/:id", Handler: h.Order.Get},
		})

		shops := apiGroup.Group("/shops")
		addRoutes(shops, []route{
			{Method: http.MethodGet, Path: "/:id", Handler: h.Shop.Get},
			{Method: http.MethodPut, Path: "/:id", Handler: h.Shop.Update, Mw: adminOnly},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(append([]gin.HandlerFunc{}, r.Mw...), r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
