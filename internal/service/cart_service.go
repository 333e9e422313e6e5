package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mouse-haven/internal/catalog"
	"github.com/mouse-haven/internal/constants"
	"github.com/mouse-haven/internal/logger"
	"github.com/mouse-haven/internal/metrics"
	"github.com/mouse-haven/internal/models"
	"github.com/mouse-haven/internal/repository"
)

// CartView 购物车视图（行、抽屉金额、角标数量）
type CartView struct {
	Items  []models.CartLineItem `json:"items"`
	Totals models.CartTotals     `json:"totals"`
	Badge  int                   `json:"badge"`
}

// CartService 购物车账本服务（按上下文中的会话隔离）
type CartService struct {
	store   repository.StateStore
	catalog catalog.Catalog
	drawer  ShippingPolicy
	metrics *metrics.Metrics
}

// NewCartService 创建购物车服务
func NewCartService(store repository.StateStore, cat catalog.Catalog, drawer ShippingPolicy, m *metrics.Metrics) *CartService {
	return &CartService{
		store:   store,
		catalog: cat,
		drawer:  drawer,
		metrics: m,
	}
}

// AddItem 加入商品：已存在则数量 +1，否则以数量 1 新增并快照商品信息；未知商品返回 false
func (s *CartService) AddItem(ctx context.Context, productID uint) (bool, error) {
	if productID == 0 {
		return false, ErrInvalidProductID
	}
	if s.catalog == nil {
		return false, nil
	}
	product, ok := s.catalog.Lookup(productID)
	if !ok {
		logger.Debugw("cart_add_unknown_product", "session_id", SessionIDFromContext(ctx), "product_id", productID)
		return false, nil
	}
	items, err := s.loadItems(ctx)
	if err != nil {
		return false, err
	}
	found := false
	for i := range items {
		if items[i].ID == productID {
			items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		items = append(items, models.NewCartLineItem(product))
	}
	if err := s.saveItems(ctx, items); err != nil {
		return false, err
	}
	s.metrics.CartMutation("add")
	return true, nil
}

// ChangeQuantity 按增量调整数量，结果 <= 0 时移除该行；商品不在购物车中时忽略
func (s *CartService) ChangeQuantity(ctx context.Context, productID uint, delta int) error {
	items, err := s.loadItems(ctx)
	if err != nil {
		return err
	}
	idx := indexOf(items, productID)
	if idx < 0 {
		return nil
	}
	items[idx].Quantity += delta
	if items[idx].Quantity <= 0 {
		items = append(items[:idx], items[idx+1:]...)
	}
	if err := s.saveItems(ctx, items); err != nil {
		return err
	}
	s.metrics.CartMutation("change_quantity")
	return nil
}

// RemoveItem 移除商品行
func (s *CartService) RemoveItem(ctx context.Context, productID uint) error {
	items, err := s.loadItems(ctx)
	if err != nil {
		return err
	}
	idx := indexOf(items, productID)
	if idx < 0 {
		return nil
	}
	items = append(items[:idx], items[idx+1:]...)
	if err := s.saveItems(ctx, items); err != nil {
		return err
	}
	s.metrics.CartMutation("remove")
	return nil
}

// Clear 清空购物车与优惠码（一次状态变更）
func (s *CartService) Clear(ctx context.Context) error {
	if err := s.scoped(ctx).Remove(ctx, constants.StateKeyCart, constants.StateKeyActivePromo); err != nil {
		return fmt.Errorf("%w: %v", ErrStateStoreUnavailable, err)
	}
	s.metrics.CartMutation("clear")
	return nil
}

// GetItems 读取购物车行，不返回错误：缺失、损坏或存储不可用都视为空购物车
func (s *CartService) GetItems(ctx context.Context) []models.CartLineItem {
	items, err := s.loadItems(ctx)
	if err != nil {
		logger.Warnw("cart_state_read_failed", "session_id", SessionIDFromContext(ctx), "error", err)
		return []models.CartLineItem{}
	}
	return items
}

// ItemCount 购物车角标数量（数量之和）
func (s *CartService) ItemCount(ctx context.Context) int {
	return countItems(s.GetItems(ctx))
}

// ActivePromo 读取当前优惠码，缺失或损坏时返回 nil
func (s *CartService) ActivePromo(ctx context.Context) *models.ActivePromo {
	promo, err := s.loadPromo(ctx)
	if err != nil {
		logger.Warnw("promo_state_read_failed", "session_id", SessionIDFromContext(ctx), "error", err)
		return nil
	}
	return promo
}

// View 购物车抽屉视图
func (s *CartService) View(ctx context.Context) CartView {
	items := s.GetItems(ctx)
	promo := s.ActivePromo(ctx)
	return CartView{
		Items:  items,
		Totals: ComputeTotals(items, promo, s.drawer),
		Badge:  countItems(items),
	}
}

func (s *CartService) scoped(ctx context.Context) repository.StateStore {
	return repository.ScopedStore(s.store, SessionIDFromContext(ctx))
}

// loadItems 存储错误向上返回；内容损坏记录日志后视为空
func (s *CartService) loadItems(ctx context.Context) ([]models.CartLineItem, error) {
	raw, found, err := s.scoped(ctx).Get(ctx, constants.StateKeyCart)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStateStoreUnavailable, err)
	}
	if !found || len(raw) == 0 {
		return []models.CartLineItem{}, nil
	}
	var stored []models.CartLineItem
	if err := json.Unmarshal(raw, &stored); err != nil {
		s.reportCorrupt(ctx, constants.StateKeyCart, err)
		return []models.CartLineItem{}, nil
	}
	items := make([]models.CartLineItem, 0, len(stored))
	for _, item := range stored {
		if item.Quantity <= 0 {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// saveItems 写回完整集合；集合为空时同时移除优惠码
func (s *CartService) saveItems(ctx context.Context, items []models.CartLineItem) error {
	store := s.scoped(ctx)
	if len(items) == 0 {
		if err := store.Remove(ctx, constants.StateKeyCart, constants.StateKeyActivePromo); err != nil {
			return fmt.Errorf("%w: %v", ErrStateStoreUnavailable, err)
		}
		return nil
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	if err := store.Set(ctx, constants.StateKeyCart, raw); err != nil {
		return fmt.Errorf("%w: %v", ErrStateStoreUnavailable, err)
	}
	return nil
}

func (s *CartService) loadPromo(ctx context.Context) (*models.ActivePromo, error) {
	raw, found, err := s.scoped(ctx).Get(ctx, constants.StateKeyActivePromo)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStateStoreUnavailable, err)
	}
	if !found || len(raw) == 0 {
		return nil, nil
	}
	var promo models.ActivePromo
	if err := json.Unmarshal(raw, &promo); err != nil || promo.Code == "" {
		if err == nil {
			err = errors.New("promo code missing")
		}
		s.reportCorrupt(ctx, constants.StateKeyActivePromo, err)
		return nil, nil
	}
	return &promo, nil
}

func (s *CartService) savePromo(ctx context.Context, promo models.ActivePromo) error {
	raw, err := json.Marshal(promo)
	if err != nil {
		return err
	}
	if err := s.scoped(ctx).Set(ctx, constants.StateKeyActivePromo, raw); err != nil {
		return fmt.Errorf("%w: %v", ErrStateStoreUnavailable, err)
	}
	return nil
}

func (s *CartService) reportCorrupt(ctx context.Context, key string, err error) {
	logger.Warnw("cart_state_corrupt", "session_id", SessionIDFromContext(ctx), "key", key, "error", err)
	s.metrics.StateCorrupted(key)
}

func indexOf(items []models.CartLineItem, productID uint) int {
	for i := range items {
		if items[i].ID == productID {
			return i
		}
	}
	return -1
}

func countItems(items []models.CartLineItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}
