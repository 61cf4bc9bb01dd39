package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"flashsale-service/internal/handler/api"
	"flashsale-service/internal/handler/middleware"
	"flashsale-service/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, seckillHandler *api.SeckillHandler, shopHandler *api.ShopHandler, voucherHandler *api.VoucherHandler, orderHandler *api.OrderHandler) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, seckillHandler, shopHandler, voucherHandler, orderHandler)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, seckillHandler *api.SeckillHandler, shopHandler *api.ShopHandler, voucherHandler *api.VoucherHandler, orderHandler *api.OrderHandler) {
	engine.GET("/health", healthCheck)

	apiGroup := engine.Group("/api")
	{
		shops := apiGroup.Group("/shops")
		{
			addRoutes(shops, []route{
				{Method: http.MethodGet, Path: "/:id", Handler: shopHandler.Get},
				{Method: http.MethodPost, Path: "/:id/warm", Handler: shopHandler.Warm},
			})
		}

		vouchers := apiGroup.Group("/vouchers")
		{
			addRoutes(vouchers, []route{
				{Method: http.MethodPost, Path: "", Handler: voucherHandler.Publish},
				{Method: http.MethodGet, Path: "/:id", Handler: voucherHandler.Get},
			})

			purchase := vouchers.Group("")
			purchase.Use(middleware.RequireUser())
			addRoutes(purchase, []route{
				{Method: http.MethodPost, Path: "/:id/seckill", Handler: seckillHandler.Purchase},
				{Method: http.MethodGet, Path: "/:id/order", Handler: orderHandler.Status},
			})
		}

		orders := apiGroup.Group("/orders")
		{
			addRoutes(orders, []route{
				{Method: http.MethodGet, Path: "/:id", Handler: orderHandler.Get},
			})
		}
	}
}

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
			h = chainHandlers(append(r.Mw, r.Handler)...)
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
		}
	}
}

func chainHandlers(handlers ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range handlers {
			if c.IsAborted() {
				return
			}
			h(c)
		}
	}
}
