package public

import (
	"strings"

	"github.com/mouse-haven/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListProducts 商品列表，支持 ?category= 筛选（all 或空为全部）
func (h *Handler) ListProducts(c *gin.Context) {
	category := strings.TrimSpace(c.Query("category"))
	products := h.Catalog.List(category)
	response.Success(c, gin.H{
		"products": products,
		"total":    len(products),
	})
}

// ListCategories 商品分类
func (h *Handler) ListCategories(c *gin.Context) {
	response.Success(c, gin.H{"categories": h.Catalog.Categories()})
}

// ListShippingOptions 结算页配送档位
func (h *Handler) ListShippingOptions(c *gin.Context) {
	response.Success(c, gin.H{"shipping_options": h.CheckoutService.ListShippingTiers()})
}
