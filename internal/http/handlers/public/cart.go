package public

import (
	"strconv"
	"strings"

	"github.com/mouse-haven/internal/constants"
	"github.com/mouse-haven/internal/http/response"
	"github.com/mouse-haven/internal/i18n"
	"github.com/mouse-haven/internal/models"
	"github.com/mouse-haven/internal/service"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加入购物车请求
type AddCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// ChangeQuantityRequest 数量调整请求（有符号增量，0 为空操作）
type ChangeQuantityRequest struct {
	Delta *int `json:"delta" binding:"required"`
}

// ApplyPromoRequest 优惠码请求
type ApplyPromoRequest struct {
	Code string `json:"code"`
}

// NoticeView 前端提示
type NoticeView struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// CartResponse 购物车响应：每次变更后返回完整视图供前端重绘
type CartResponse struct {
	service.CartView
	Promo  *models.ActivePromo `json:"promo,omitempty"`
	Notice *NoticeView         `json:"notice,omitempty"`
}

func (h *Handler) cartResponse(c *gin.Context, view service.CartView, promo *models.ActivePromo, noticeType, noticeKey string) CartResponse {
	resp := CartResponse{CartView: view, Promo: promo}
	if noticeKey != "" {
		resp.Notice = &NoticeView{Type: noticeType, Message: i18n.T(i18n.ResolveLocale(c), noticeKey)}
	}
	return resp
}

func (h *Handler) respondCart(c *gin.Context, noticeType, noticeKey string) {
	ctx, ok := sessionContext(c)
	if !ok {
		return
	}
	view := h.CartService.View(ctx)
	response.Success(c, h.cartResponse(c, view, h.CartService.ActivePromo(ctx), noticeType, noticeKey))
}

// GetCart 获取购物车（行、抽屉金额、角标）
func (h *Handler) GetCart(c *gin.Context) {
	h.respondCart(c, "", "")
}

// AddCartItem 加入购物车
func (h *Handler) AddCartItem(c *gin.Context) {
	ctx, ok := sessionContext(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.product_id_invalid", nil)
		return
	}
	added, err := h.CartService.AddItem(ctx, req.ProductID)
	if err != nil {
		respondCartMutationError(c, err)
		return
	}
	if !added {
		h.respondCart(c, constants.NoticeError, "notice.cart_product_not_found")
		return
	}
	h.respondCart(c, constants.NoticeSuccess, "notice.cart_added")
}

// UpdateCartItem 调整购物车数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	ctx, ok := sessionContext(c)
	if !ok {
		return
	}
	productID, ok := parseProductID(c)
	if !ok {
		return
	}
	var req ChangeQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.CartService.ChangeQuantity(ctx, productID, *req.Delta); err != nil {
		respondCartMutationError(c, err)
		return
	}
	h.respondCart(c, "", "")
}

// RemoveCartItem 移除购物车行
func (h *Handler) RemoveCartItem(c *gin.Context) {
	ctx, ok := sessionContext(c)
	if !ok {
		return
	}
	productID, ok := parseProductID(c)
	if !ok {
		return
	}
	if err := h.CartService.RemoveItem(ctx, productID); err != nil {
		respondCartMutationError(c, err)
		return
	}
	h.respondCart(c, constants.NoticeSuccess, "notice.cart_item_removed")
}

// ClearCart 清空购物车与优惠码
func (h *Handler) ClearCart(c *gin.Context) {
	ctx, ok := sessionContext(c)
	if !ok {
		return
	}
	if err := h.CartService.Clear(ctx); err != nil {
		respondCartMutationError(c, err)
		return
	}
	h.respondCart(c, constants.NoticeSuccess, "notice.cart_cleared")
}

// ApplyPromo 应用优惠码
func (h *Handler) ApplyPromo(c *gin.Context) {
	ctx, ok := sessionContext(c)
	if !ok {
		return
	}
	var req ApplyPromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	app, err := h.PromoService.Apply(ctx, req.Code)
	if err != nil {
		respondPromoError(c, err)
		return
	}
	view := h.CartService.View(ctx)
	resp := h.cartResponse(c, view, &app.Promo, "", "")
	resp.Notice = &NoticeView{Type: constants.NoticeSuccess, Message: app.Message}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "notice.promo_applied"), resp)
}

func parseProductID(c *gin.Context) (uint, bool) {
	raw := strings.TrimSpace(c.Param("product_id"))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.product_id_invalid", nil)
		return 0, false
	}
	return uint(id), true
}
