package router

import (
	"fmt"
	"strings"
	"time"

	"github.com/mouse-haven/internal/config"
	publichandlers "github.com/mouse-haven/internal/http/handlers/public"
	"github.com/mouse-haven/internal/logger"
	"github.com/mouse-haven/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	r := gin.New()

	publicHandler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "mh"
	}
	promoRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:promo", redisPrefix),
		WindowSeconds: cfg.Security.PromoRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.PromoRateLimit.MaxAttempts,
		MessageKey:    "error.rate_limited",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(logger.Z()))
	r.Use(MetricsMiddleware(c.Metrics))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 公开接口（目录）
		public := apiV1.Group("/public")
		{
			public.GET("/products", publicHandler.ListProducts)
			public.GET("/categories", publicHandler.ListCategories)
			public.GET("/shipping-options", publicHandler.ListShippingOptions)
		}

		// 购物车接口（按会话隔离）
		cart := apiV1.Group("/cart")
		cart.Use(SessionMiddleware(cfg.Session))
		{
			cart.GET("", publicHandler.GetCart)
			cart.DELETE("", publicHandler.ClearCart)
			cart.POST("/items", publicHandler.AddCartItem)
			cart.PATCH("/items/:product_id", publicHandler.UpdateCartItem)
			cart.DELETE("/items/:product_id", publicHandler.RemoveCartItem)
			cart.POST("/promo", RateLimitMiddleware(c.RedisClient, promoRule, KeyBySession), publicHandler.ApplyPromo)
			cart.GET("/checkout/review", publicHandler.ReviewCheckout)
			cart.POST("/checkout", publicHandler.PlaceCheckout)
		}
	}

	// 指标
	r.GET("/metrics", gin.WrapH(c.Metrics.Handler()))

	// 健康检查
	r.GET("/health", func(ctx *gin.Context) {
		resp := gin.H{"status": "ok", "products": c.Catalog.Len()}
		if updated := c.Catalog.UpdatedAt(); !updated.IsZero() {
			resp["catalog_updated_at"] = updated.UTC().Format(time.RFC3339)
		}
		ctx.JSON(200, resp)
	})

	return r
}
