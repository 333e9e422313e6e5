package service

import (
	"strings"

	"github.com/mouse-haven/internal/constants"
	"github.com/mouse-haven/internal/models"

	"github.com/shopspring/decimal"
)

// ShippingPolicy 运费策略
type ShippingPolicy interface {
	Name() string
	TierCode() string
	Cost(subtotal decimal.Decimal) decimal.Decimal
}

// FlatRateShipping 购物车抽屉使用的固定运费（小计 > 0 时收取）
type FlatRateShipping struct {
	Rate decimal.Decimal
}

// NewFlatRateShipping 解析配置中的固定运费，非法值回退 5.99
func NewFlatRateShipping(raw string) FlatRateShipping {
	rate, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || rate.IsNegative() {
		rate = decimal.RequireFromString(defaultFlatRate)
	}
	return FlatRateShipping{Rate: rate}
}

func (FlatRateShipping) Name() string { return constants.ShippingPolicyFlatRate }

func (FlatRateShipping) TierCode() string { return "" }

func (p FlatRateShipping) Cost(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(decimal.Zero) {
		return p.Rate
	}
	return decimal.Zero
}

// TieredShipping 结算页按所选档位收取运费
type TieredShipping struct {
	Tier models.ShippingTier
}

func (TieredShipping) Name() string { return constants.ShippingPolicyTiered }

func (p TieredShipping) TierCode() string { return p.Tier.Code }

func (p TieredShipping) Cost(_ decimal.Decimal) decimal.Decimal {
	return p.Tier.Rate.Decimal
}

// Subtotal 行小计之和
func Subtotal(items []models.CartLineItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	return subtotal
}

// ComputeTotals 计算金额汇总：total = subtotal + shipping - discount（不截断为 0）
// 折扣使用应用优惠码时保存的金额，不随购物车变化重新计算
func ComputeTotals(items []models.CartLineItem, promo *models.ActivePromo, policy ShippingPolicy) models.CartTotals {
	subtotal := Subtotal(items)
	totals := models.CartTotals{
		Subtotal: subtotal,
		Shipping: decimal.Zero,
		Discount: decimal.Zero,
	}
	if policy != nil {
		totals.Shipping = policy.Cost(subtotal)
		totals.ShippingPolicy = policy.Name()
		totals.ShippingTier = policy.TierCode()
	}
	if promo != nil {
		totals.Discount = promo.Discount
	}
	totals.Total = subtotal.Add(totals.Shipping).Sub(totals.Discount)
	return totals
}
