package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mouse-haven/internal/cache"
	"github.com/mouse-haven/internal/constants"
	"github.com/mouse-haven/internal/logger"
	"github.com/mouse-haven/internal/metrics"
	"github.com/mouse-haven/internal/models"
)

// Catalog 购物车与展示层使用的只读目录视图
type Catalog interface {
	Lookup(id uint) (models.Product, bool)
	List(category string) []models.Product
	Categories() []string
}

// Options 目录存储配置
type Options struct {
	CacheTTL time.Duration
	Metrics  *metrics.Metrics
}

// Store 目录快照（替代页面级全局变量，启动时构建后显式传递）
type Store struct {
	source  Source
	opts    Options
	mu      sync.RWMutex
	items   []models.Product
	byID    map[uint]int
	updated time.Time
}

// NewStore 创建目录存储
func NewStore(source Source, opts Options) *Store {
	return &Store{source: source, opts: opts, byID: map[uint]int{}}
}

// NewStaticStore 使用固定商品列表创建目录（测试与离线模式）
func NewStaticStore(products []models.Product) *Store {
	s := NewStore(nil, Options{})
	s.replace(products)
	return s
}

// Load 启动加载：优先读共享缓存，未命中再拉取数据源，失败降级为空目录
func (s *Store) Load(ctx context.Context) int {
	var cached []models.Product
	found, err := cache.GetJSON(ctx, constants.CatalogCacheKey, &cached)
	if err != nil {
		logger.Warnw("catalog_cache_read_failed", "error", err)
	}
	if found && len(cached) > 0 {
		s.replace(cached)
		logger.Infow("catalog_loaded_from_cache", "products", len(cached))
		s.opts.Metrics.CatalogRefreshed("ok", len(cached))
		return len(cached)
	}
	if err := s.Refresh(ctx); err != nil {
		return 0
	}
	return s.Len()
}

// Refresh 重新拉取目录；失败时保留上一次快照
func (s *Store) Refresh(ctx context.Context) error {
	if s.source == nil {
		return nil
	}
	products, err := s.source.Fetch(ctx)
	if err != nil {
		logger.Warnw("catalog_fetch_failed", "error", err, "kept_products", s.Len())
		s.opts.Metrics.CatalogRefreshed("failed", 0)
		return err
	}
	s.replace(products)
	s.opts.Metrics.CatalogRefreshed("ok", len(products))
	logger.Infow("catalog_refreshed", "products", len(products))

	if s.opts.CacheTTL > 0 {
		if err := cache.SetJSON(ctx, constants.CatalogCacheKey, products, s.opts.CacheTTL); err != nil {
			logger.Warnw("catalog_cache_write_failed", "error", err)
		}
	}
	return nil
}

// Lookup 按商品ID查找
func (s *Store) Lookup(id uint) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.byID[id]
	if !ok {
		return models.Product{}, false
	}
	return s.items[idx], true
}

// List 按分类筛选（空或 all 返回全部）
func (s *Store) List(category string) []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	category = strings.TrimSpace(category)
	out := make([]models.Product, 0, len(s.items))
	for _, p := range s.items {
		if category == "" || category == constants.CategoryAll || p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Categories 当前目录中出现的分类（字典序）
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range s.items {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}

// Len 商品数量
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// UpdatedAt 最近一次成功加载的时间
func (s *Store) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updated
}

func (s *Store) replace(products []models.Product) {
	items := make([]models.Product, 0, len(products))
	byID := make(map[uint]int, len(products))
	for _, p := range products {
		if _, dup := byID[p.ID]; dup {
			continue
		}
		byID[p.ID] = len(items)
		items = append(items, p)
	}
	s.mu.Lock()
	s.items = items
	s.byID = byID
	s.updated = time.Now()
	s.mu.Unlock()
}
