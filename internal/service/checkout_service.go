package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/mouse-haven/internal/i18n"
	"github.com/mouse-haven/internal/logger"
	"github.com/mouse-haven/internal/metrics"
	"github.com/mouse-haven/internal/models"
	"github.com/mouse-haven/internal/queue"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// ConfirmationEnqueuer 结算确认任务投递
type ConfirmationEnqueuer interface {
	EnqueueCheckoutConfirmation(payload queue.CheckoutConfirmationPayload, opts ...asynq.Option) error
}

// CheckoutReview 结算页预览
type CheckoutReview struct {
	Items        []models.CartLineItem `json:"items"`
	Totals       models.CartTotals     `json:"totals"`
	ShippingTier models.ShippingTier   `json:"shipping_tier"`
	Options      []models.ShippingTier `json:"shipping_options"`
}

// CheckoutConfirmation 模拟下单结果（无支付、无订单记录）
type CheckoutConfirmation struct {
	ConfirmationID string                   `json:"confirmation_id"`
	Email          string                   `json:"email"`
	Lines          []queue.ConfirmationLine `json:"lines"`
	Totals         models.CartTotals        `json:"totals"`
	Message        string                   `json:"message"`
	PlacedAt       time.Time                `json:"placed_at"`
}

// CheckoutService 结算服务
type CheckoutService struct {
	cart     *CartService
	shipping *ShippingOptions
	queue    ConfirmationEnqueuer
	metrics  *metrics.Metrics
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(cart *CartService, shipping *ShippingOptions, q ConfirmationEnqueuer, m *metrics.Metrics) *CheckoutService {
	return &CheckoutService{
		cart:     cart,
		shipping: shipping,
		queue:    q,
		metrics:  m,
	}
}

// ListShippingTiers 配送档位列表
func (s *CheckoutService) ListShippingTiers() []models.ShippingTier {
	return s.shipping.Tiers()
}

// Review 结算页预览（按所选档位计算运费，包含已应用的折扣）
func (s *CheckoutService) Review(ctx context.Context, tierCode string) (*CheckoutReview, error) {
	policy, err := s.shipping.Select(tierCode)
	if err != nil {
		return nil, err
	}
	items := s.cart.GetItems(ctx)
	promo := s.cart.ActivePromo(ctx)
	return &CheckoutReview{
		Items:        items,
		Totals:       ComputeTotals(items, promo, policy),
		ShippingTier: policy.Tier,
		Options:      s.shipping.Tiers(),
	}, nil
}

// Place 模拟下单：校验邮箱与购物车，清空购物车和优惠码，投递确认任务
func (s *CheckoutService) Place(ctx context.Context, email, tierCode string) (*CheckoutConfirmation, error) {
	normalizedEmail, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	policy, err := s.shipping.Select(tierCode)
	if err != nil {
		return nil, err
	}
	items, err := s.cart.loadItems(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	promo, err := s.cart.loadPromo(ctx)
	if err != nil {
		return nil, err
	}
	totals := ComputeTotals(items, promo, policy)

	lines := make([]queue.ConfirmationLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, queue.ConfirmationLine{
			ProductID: item.ID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			LineTotal: models.FormatAmount(item.LineTotal()),
		})
	}
	confirmation := &CheckoutConfirmation{
		ConfirmationID: uuid.NewString(),
		Email:          normalizedEmail,
		Lines:          lines,
		Totals:         totals,
		Message:        i18n.T(localeFromContext(ctx), "notice.checkout_placed"),
		PlacedAt:       time.Now(),
	}

	if err := s.cart.Clear(ctx); err != nil {
		return nil, err
	}
	s.metrics.CheckoutPlaced()
	logger.Infow("checkout_placed",
		"session_id", SessionIDFromContext(ctx),
		"confirmation_id", confirmation.ConfirmationID,
		"lines", len(lines),
		"total", models.FormatAmount(totals.Total),
		"shipping_tier", policy.TierCode(),
	)

	if s.queue != nil {
		payload := queue.CheckoutConfirmationPayload{
			ConfirmationID: confirmation.ConfirmationID,
			SessionID:      SessionIDFromContext(ctx),
			Email:          normalizedEmail,
			ShippingTier:   policy.TierCode(),
			Lines:          lines,
			Subtotal:       models.FormatAmount(totals.Subtotal),
			Shipping:       models.FormatAmount(totals.Shipping),
			Discount:       models.FormatAmount(totals.Discount),
			Total:          models.FormatAmount(totals.Total),
			PlacedAt:       confirmation.PlacedAt,
		}
		if err := s.queue.EnqueueCheckoutConfirmation(payload); err != nil {
			logger.Warnw("checkout_confirmation_enqueue_failed", "confirmation_id", confirmation.ConfirmationID, "error", err)
		}
	}
	return confirmation, nil
}

func normalizeEmail(raw string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(normalized)
	if err != nil || addr.Address != normalized || !strings.Contains(normalized[strings.LastIndex(normalized, "@")+1:], ".") {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}
