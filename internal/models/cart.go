package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CartLineItem 购物车行（加入时快照商品名称、单价、图片）
type CartLineItem struct {
	ID       uint   `json:"id"`       // 商品ID
	Name     string `json:"name"`     // 名称快照
	Price    Money  `json:"price"`    // 单价快照
	Image    string `json:"image"`    // 图片快照
	Quantity int    `json:"quantity"` // 数量（>= 1）
}

// LineTotal 行小计（未舍入）
func (i CartLineItem) LineTotal() decimal.Decimal {
	return i.Price.Decimal.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NewCartLineItem 从商品快照创建购物车行
func NewCartLineItem(product Product) CartLineItem {
	return CartLineItem{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.Price,
		Image:    product.Image,
		Quantity: 1,
	}
}

// ActivePromo 当前生效的优惠码（折扣金额在应用时一次性计算）
type ActivePromo struct {
	Code     string          `json:"code"`
	Discount decimal.Decimal `json:"discount"`
}

// PromoDefinition 优惠码定义
type PromoDefinition struct {
	Kind  string          `json:"kind"`  // percentage / fixed
	Value decimal.Decimal `json:"value"` // 百分比或固定金额
}

// NormalizePromoCode 统一优惠码格式（去空白、大写）
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
