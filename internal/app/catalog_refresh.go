package app

import (
	"context"
	"time"

	"github.com/mouse-haven/internal/logger"
)

// CatalogRefresher 可刷新的目录
type CatalogRefresher interface {
	Refresh(ctx context.Context) error
}

// CatalogRefreshService 进程内目录定时刷新（队列关闭时使用）
type CatalogRefreshService struct {
	catalog  CatalogRefresher
	interval time.Duration
	stop     chan struct{}
}

// NewCatalogRefreshService 创建目录刷新服务，间隔 <= 0 时只等待退出
func NewCatalogRefreshService(catalog CatalogRefresher, intervalSeconds int) *CatalogRefreshService {
	return &CatalogRefreshService{
		catalog:  catalog,
		interval: time.Duration(intervalSeconds) * time.Second,
		stop:     make(chan struct{}),
	}
}

// Name 服务名称
func (s *CatalogRefreshService) Name() string {
	return "catalog_refresh"
}

// Start 启动刷新循环，直到 ctx 取消或 Stop
func (s *CatalogRefreshService) Start(ctx context.Context) error {
	if s.catalog == nil || s.interval <= 0 {
		select {
		case <-ctx.Done():
		case <-s.stop:
		}
		return nil
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.stop:
			return nil
		case <-ticker.C:
			s.refreshOnce(ctx)
		}
	}
}

func (s *CatalogRefreshService) refreshOnce(ctx context.Context) {
	if err := s.catalog.Refresh(ctx); err != nil {
		logger.Warnw("app_catalog_refresh_failed", "error", err)
	}
}

// Stop 停止服务
func (s *CatalogRefreshService) Stop(ctx context.Context) error {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	return nil
}
