package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CartTotals 购物车金额汇总（派生值，不落库）
type CartTotals struct {
	Subtotal       decimal.Decimal
	Shipping       decimal.Decimal
	Discount       decimal.Decimal
	Total          decimal.Decimal
	ShippingPolicy string
	ShippingTier   string
}

type cartTotalsJSON struct {
	Subtotal       string `json:"subtotal"`
	Shipping       string `json:"shipping"`
	Discount       string `json:"discount"`
	Total          string `json:"total"`
	ShippingPolicy string `json:"shipping_policy"`
	ShippingTier   string `json:"shipping_tier,omitempty"`
	HasDiscount    bool   `json:"has_discount"`
}

// MarshalJSON 输出时统一格式化为 2 位小数
func (t CartTotals) MarshalJSON() ([]byte, error) {
	return json.Marshal(cartTotalsJSON{
		Subtotal:       FormatAmount(t.Subtotal),
		Shipping:       FormatAmount(t.Shipping),
		Discount:       FormatAmount(t.Discount),
		Total:          FormatAmount(t.Total),
		ShippingPolicy: t.ShippingPolicy,
		ShippingTier:   t.ShippingTier,
		HasDiscount:    t.Discount.GreaterThan(decimal.Zero),
	})
}

// ShippingTier 结算页可选的配送档位
type ShippingTier struct {
	Code  string `json:"code"`
	Label string `json:"label"`
	Rate  Money  `json:"rate"`
	Days  string `json:"days,omitempty"`
}
