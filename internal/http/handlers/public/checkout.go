package public

import (
	"strings"

	"github.com/mouse-haven/internal/http/response"

	"github.com/gin-gonic/gin"
)

// PlaceCheckoutRequest 模拟下单请求
type PlaceCheckoutRequest struct {
	Email    string `json:"email"`
	Shipping string `json:"shipping"`
}

// ReviewCheckout 结算预览（?shipping= 选择配送档位）
func (h *Handler) ReviewCheckout(c *gin.Context) {
	ctx, ok := sessionContext(c)
	if !ok {
		return
	}
	review, err := h.CheckoutService.Review(ctx, strings.TrimSpace(c.Query("shipping")))
	if err != nil {
		respondCheckoutReviewError(c, err)
		return
	}
	response.Success(c, review)
}

// PlaceCheckout 模拟下单，成功后购物车与优惠码被清空
func (h *Handler) PlaceCheckout(c *gin.Context) {
	ctx, ok := sessionContext(c)
	if !ok {
		return
	}
	var req PlaceCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	confirmation, err := h.CheckoutService.Place(ctx, req.Email, req.Shipping)
	if err != nil {
		respondCheckoutPlaceError(c, err)
		return
	}
	response.SuccessWithMsg(c, confirmation.Message, gin.H{
		"confirmation": confirmation,
		"cart":         h.CartService.View(ctx),
	})
}
