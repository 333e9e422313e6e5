package worker

import (
	"context"
	"errors"
	"time"

	"github.com/mouse-haven/internal/config"
	"github.com/mouse-haven/internal/logger"
	"github.com/mouse-haven/internal/queue"
	"github.com/mouse-haven/internal/repository"

	"github.com/hibiken/asynq"
)

const (
	statePurgeInterval = time.Hour
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.Container != nil {
		if s.consumer.QueueClient.Enabled() {
			go s.runCatalogRefreshLoop(ctx)
		}
		if s.consumer.StateRepo != nil {
			go s.runStatePurgeLoop(ctx)
		}
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runCatalogRefreshLoop 定期投递目录刷新任务（唯一任务，多实例不重复）
func (s *Service) runCatalogRefreshLoop(ctx context.Context) {
	cfg := s.consumer.Config
	if cfg == nil || cfg.Catalog.RefreshIntervalSeconds <= 0 {
		return
	}
	interval := time.Duration(cfg.Catalog.RefreshIntervalSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.consumer.QueueClient.EnqueueCatalogRefresh(queue.CatalogRefreshPayload{Reason: "interval"}); err != nil {
				logger.Warnw("worker_catalog_refresh_enqueue_failed", "error", err)
			}
		}
	}
}

func (s *Service) runStatePurgeLoop(ctx context.Context) {
	cfg := s.consumer.Config
	if cfg == nil || cfg.Storage.RetentionDays <= 0 {
		return
	}
	retention := time.Duration(cfg.Storage.RetentionDays) * 24 * time.Hour
	runOnce := func() {
		purgeExpiredState(ctx, s.consumer.StateRepo, retention, time.Now())
	}
	runOnce()

	ticker := time.NewTicker(statePurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}

// purgeExpiredState 清理长期未更新的会话状态
func purgeExpiredState(ctx context.Context, repo *repository.GormStateRepository, retention time.Duration, now time.Time) int64 {
	if repo == nil || retention <= 0 {
		return 0
	}
	removed, err := repo.PurgeBefore(ctx, now.Add(-retention))
	if err != nil {
		logger.Warnw("worker_state_purge_failed", "error", err)
		return 0
	}
	if removed > 0 {
		logger.Infow("worker_state_purged", "removed", removed, "retention_hours", int(retention.Hours()))
	}
	return removed
}
