package provider

import (
	"context"
	"strings"
	"time"

	"github.com/mouse-haven/internal/cache"
	"github.com/mouse-haven/internal/catalog"
	"github.com/mouse-haven/internal/config"
	"github.com/mouse-haven/internal/constants"
	"github.com/mouse-haven/internal/logger"
	"github.com/mouse-haven/internal/metrics"
	"github.com/mouse-haven/internal/models"
	"github.com/mouse-haven/internal/queue"
	"github.com/mouse-haven/internal/repository"
	"github.com/mouse-haven/internal/service"

	"github.com/redis/go-redis/v9"
)

const catalogLoadTimeout = 10 * time.Second

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	RedisClient *redis.Client
	Metrics     *metrics.Metrics

	// Repositories
	StateStore repository.StateStore
	StateRepo  *repository.GormStateRepository

	// Catalog
	Catalog *catalog.Store

	// Services
	ShippingOptions *service.ShippingOptions
	CartService     *service.CartService
	PromoService    *service.PromoService
	CheckoutService *service.CheckoutService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	redisClient, err := cache.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		RedisClient: redisClient,
		Metrics:     metrics.New(),
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 加载商品目录
	c.initCatalog()

	// 3. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	driver := strings.ToLower(strings.TrimSpace(c.Config.Storage.Driver))
	switch driver {
	case constants.StorageDriverSQLite, constants.StorageDriverPostgres:
		if models.DB == nil {
			logger.Warnw("provider_state_store_fallback_memory", "driver", driver, "reason", "database not initialized")
			c.StateStore = repository.NewMemoryStateStore()
			return
		}
		c.StateRepo = repository.NewStateRepository(models.DB)
		c.StateStore = c.StateRepo
	case constants.StorageDriverRedis:
		if c.RedisClient == nil {
			logger.Warnw("provider_state_store_fallback_memory", "driver", driver, "reason", "redis disabled")
			c.StateStore = repository.NewMemoryStateStore()
			return
		}
		ttl := time.Duration(c.Config.Storage.TTLSeconds) * time.Second
		c.StateStore = repository.NewRedisStateStore(c.RedisClient, c.Config.Redis.Prefix, ttl)
	default:
		c.StateStore = repository.NewMemoryStateStore()
	}
	logger.Infow("provider_state_store_ready", "driver", driver)
}

func (c *Container) initCatalog() {
	cfg := c.Config.Catalog
	var source catalog.Source
	if strings.TrimSpace(cfg.File) != "" {
		source = &catalog.FileSource{Path: cfg.File}
	} else {
		source = catalog.NewHTTPSource(cfg.SourceURL, time.Duration(cfg.TimeoutMS)*time.Millisecond)
	}
	c.Catalog = catalog.NewStore(source, catalog.Options{
		CacheTTL: time.Duration(cfg.CacheTTLSeconds) * time.Second,
		Metrics:  c.Metrics,
	})

	ctx, cancel := context.WithTimeout(context.Background(), catalogLoadTimeout)
	defer cancel()
	if n := c.Catalog.Load(ctx); n == 0 {
		logger.Warnw("provider_catalog_empty", "source_url", cfg.SourceURL, "file", cfg.File)
	}
}

func (c *Container) initServices() {
	c.ShippingOptions = service.NewShippingOptions(c.Config.Shipping.Tiers)
	drawer := service.NewFlatRateShipping(c.Config.Shipping.FlatRate)

	c.CartService = service.NewCartService(c.StateStore, c.Catalog, drawer, c.Metrics)
	c.PromoService = service.NewPromoService(c.CartService, nil, c.Metrics)
	c.CheckoutService = service.NewCheckoutService(c.CartService, c.ShippingOptions, c.QueueClient, c.Metrics)
}

// Close 释放外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.Warnw("provider_close_redis_failed", "error", err)
		}
	}
}
