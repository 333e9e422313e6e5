package service

import (
	"strings"

	"github.com/mouse-haven/internal/config"
	"github.com/mouse-haven/internal/logger"
	"github.com/mouse-haven/internal/models"
)

const defaultFlatRate = "5.99"

var defaultShippingTiers = []models.ShippingTier{
	{Code: "standard", Label: "Standard Shipping", Rate: models.MustMoney("5.99"), Days: "3-5"},
	{Code: "express", Label: "Express Shipping", Rate: models.MustMoney("12.99"), Days: "1-2"},
	{Code: "overnight", Label: "Overnight Shipping", Rate: models.MustMoney("24.99"), Days: "1"},
}

// ShippingOptions 结算页配送档位（有序，第一项为默认）
type ShippingOptions struct {
	tiers []models.ShippingTier
}

// NewShippingOptions 从配置构建配送档位，非法条目跳过，全部非法时使用默认档位
func NewShippingOptions(cfg []config.ShippingTierConfig) *ShippingOptions {
	tiers := make([]models.ShippingTier, 0, len(cfg))
	seen := make(map[string]struct{}, len(cfg))
	for _, item := range cfg {
		code := strings.ToLower(strings.TrimSpace(item.Code))
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		rate, err := models.NewMoneyFromString(strings.TrimSpace(item.Rate))
		if err != nil || rate.IsNegative() {
			logger.Warnw("shipping_tier_config_invalid", "code", code, "rate", item.Rate)
			continue
		}
		seen[code] = struct{}{}
		label := strings.TrimSpace(item.Label)
		if label == "" {
			label = code
		}
		tiers = append(tiers, models.ShippingTier{Code: code, Label: label, Rate: rate, Days: item.Days})
	}
	if len(tiers) == 0 {
		tiers = append(tiers, defaultShippingTiers...)
	}
	return &ShippingOptions{tiers: tiers}
}

// Tiers 返回档位副本
func (o *ShippingOptions) Tiers() []models.ShippingTier {
	out := make([]models.ShippingTier, len(o.tiers))
	copy(out, o.tiers)
	return out
}

// Select 选择档位，空值使用默认档位
func (o *ShippingOptions) Select(code string) (TieredShipping, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return TieredShipping{Tier: o.tiers[0]}, nil
	}
	for _, tier := range o.tiers {
		if tier.Code == code {
			return TieredShipping{Tier: tier}, nil
		}
	}
	return TieredShipping{}, ErrShippingTierInvalid
}
