package service

import (
	"context"
	"errors"
	"strings"

	"github.com/mouse-haven/internal/constants"
	"github.com/mouse-haven/internal/i18n"
	"github.com/mouse-haven/internal/logger"
	"github.com/mouse-haven/internal/metrics"
	"github.com/mouse-haven/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultPromoCatalog 内置优惠码表
var DefaultPromoCatalog = map[string]models.PromoDefinition{
	"WELCOME10": {Kind: constants.PromoKindPercentage, Value: decimal.NewFromInt(10)},
	"SAVE20":    {Kind: constants.PromoKindPercentage, Value: decimal.NewFromInt(20)},
	"FLAT50":    {Kind: constants.PromoKindFixed, Value: decimal.NewFromInt(50)},
}

var hundred = decimal.NewFromInt(100)

// PromoApplication 优惠码应用结果
type PromoApplication struct {
	Promo   models.ActivePromo `json:"promo"`
	Totals  models.CartTotals  `json:"totals"`
	Message string             `json:"message"`
}

// PromoService 优惠码服务
type PromoService struct {
	cart    *CartService
	table   map[string]models.PromoDefinition
	metrics *metrics.Metrics
}

// NewPromoService 创建优惠码服务，table 为空时使用内置表
func NewPromoService(cart *CartService, table map[string]models.PromoDefinition, m *metrics.Metrics) *PromoService {
	if len(table) == 0 {
		table = DefaultPromoCatalog
	}
	normalized := make(map[string]models.PromoDefinition, len(table))
	for code, def := range table {
		normalized[models.NormalizePromoCode(code)] = def
	}
	return &PromoService{cart: cart, table: normalized, metrics: m}
}

// Resolve 校验优惠码并按当前小计计算折扣金额
// 查表使用规范化后的码，保存的是用户输入（去除首尾空白）
func (s *PromoService) Resolve(code string, subtotal decimal.Decimal) (models.ActivePromo, error) {
	def, ok := s.table[models.NormalizePromoCode(code)]
	if !ok {
		return models.ActivePromo{}, ErrInvalidCode
	}
	if subtotal.LessThanOrEqual(decimal.Zero) {
		return models.ActivePromo{}, ErrEmptyCart
	}
	discount, err := calculateDiscount(def, subtotal)
	if err != nil {
		return models.ActivePromo{}, err
	}
	return models.ActivePromo{Code: strings.TrimSpace(code), Discount: discount}, nil
}

// Apply 对当前会话购物车应用优惠码，覆盖已存在的优惠码
func (s *PromoService) Apply(ctx context.Context, code string) (*PromoApplication, error) {
	if strings.TrimSpace(code) == "" {
		s.metrics.PromoOutcome("required")
		return nil, ErrPromoCodeRequired
	}
	items, err := s.cart.loadItems(ctx)
	if err != nil {
		return nil, err
	}
	promo, err := s.Resolve(code, Subtotal(items))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCode):
			s.metrics.PromoOutcome("invalid")
		case errors.Is(err, ErrEmptyCart):
			s.metrics.PromoOutcome("empty_cart")
		}
		logger.Debugw("promo_rejected", "session_id", SessionIDFromContext(ctx), "code", models.NormalizePromoCode(code), "error", err)
		return nil, err
	}
	if err := s.cart.savePromo(ctx, promo); err != nil {
		return nil, err
	}
	s.metrics.PromoOutcome("applied")
	logger.Infow("promo_applied",
		"session_id", SessionIDFromContext(ctx),
		"code", promo.Code,
		"discount", models.FormatAmount(promo.Discount),
	)
	return &PromoApplication{
		Promo:   promo,
		Totals:  ComputeTotals(items, &promo, s.cart.drawer),
		Message: i18n.Sprintf(localeFromContext(ctx), "notice.promo_discount", models.FormatAmount(promo.Discount)),
	}, nil
}

// calculateDiscount 百分比：subtotal*value/100；固定金额：不超过小计
func calculateDiscount(def models.PromoDefinition, subtotal decimal.Decimal) (decimal.Decimal, error) {
	switch def.Kind {
	case constants.PromoKindPercentage:
		if def.Value.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero, ErrInvalidCode
		}
		return subtotal.Mul(def.Value).Div(hundred), nil
	case constants.PromoKindFixed:
		if def.Value.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero, ErrInvalidCode
		}
		return decimal.Min(def.Value, subtotal), nil
	default:
		return decimal.Zero, ErrInvalidCode
	}
}
