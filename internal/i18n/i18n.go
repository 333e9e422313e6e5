package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	LocaleEN   = "en"
	LocaleZHCN = "zh-CN"
)

var messages = map[string]map[string]string{
	LocaleEN: {
		"success":                       "success",
		"error.bad_request":             "Bad request",
		"error.internal":                "Internal server error",
		"error.not_found":               "Not found",
		"error.rate_limited":            "Too many attempts, retry in %d seconds",
		"error.rate_limit_unavailable":  "Rate limiter unavailable",
		"error.session_invalid":         "Invalid session",
		"error.product_id_invalid":      "Invalid product id",
		"error.promo_code_required":     "Please enter a promo code",
		"error.promo_code_invalid":      "Invalid promo code",
		"error.cart_empty":              "Cart is empty",
		"error.shipping_tier_invalid":   "Invalid shipping option",
		"error.email_invalid":           "Please enter a valid email address",
		"error.cart_fetch_failed":       "Failed to load cart",
		"error.cart_update_failed":      "Failed to update cart",
		"error.checkout_failed":         "Checkout failed",
		"notice.cart_added":             "Added to cart!",
		"notice.cart_item_removed":      "Item removed from cart",
		"notice.cart_cleared":           "Cart cleared",
		"notice.cart_product_not_found": "Product not found",
		"notice.promo_applied":          "Promo code applied successfully!",
		"notice.promo_discount":         "Promo code applied: -$%s",
		"notice.checkout_placed":        "Thank you for your purchase!",
	},
	LocaleZHCN: {
		"success":                       "成功",
		"error.bad_request":             "请求参数错误",
		"error.internal":                "服务器内部错误",
		"error.not_found":               "资源不存在",
		"error.rate_limited":            "尝试次数过多，请 %d 秒后重试",
		"error.rate_limit_unavailable":  "限流服务不可用",
		"error.session_invalid":         "会话无效",
		"error.product_id_invalid":      "商品ID无效",
		"error.promo_code_required":     "请输入优惠码",
		"error.promo_code_invalid":      "优惠码无效",
		"error.cart_empty":              "购物车为空",
		"error.shipping_tier_invalid":   "配送方式无效",
		"error.email_invalid":           "请输入有效的邮箱地址",
		"error.cart_fetch_failed":       "获取购物车失败",
		"error.cart_update_failed":      "更新购物车失败",
		"error.checkout_failed":         "结算失败",
		"notice.cart_added":             "已加入购物车",
		"notice.cart_item_removed":      "已从购物车移除",
		"notice.cart_cleared":           "购物车已清空",
		"notice.cart_product_not_found": "商品不存在",
		"notice.promo_applied":          "优惠码使用成功",
		"notice.promo_discount":         "已使用优惠码：-$%s",
		"notice.checkout_placed":        "感谢您的购买！",
	},
}

// NormalizeLocale 归一化语言标识，未知语言回退到英文
func NormalizeLocale(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case value == "":
		return LocaleEN
	case strings.HasPrefix(value, "zh"):
		return LocaleZHCN
	default:
		return LocaleEN
	}
}

// ResolveLocale 从请求头解析语言（取 Accept-Language 第一项）
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return LocaleEN
	}
	header := c.GetHeader("Accept-Language")
	if header == "" {
		return LocaleEN
	}
	first := strings.SplitN(header, ",", 2)[0]
	first = strings.SplitN(first, ";", 2)[0]
	return NormalizeLocale(first)
}

// T 翻译消息 key，缺失时回退英文，再缺失返回 key 本身
func T(locale, key string) string {
	if table, ok := messages[NormalizeLocale(locale)]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[LocaleEN][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}
