package public

import (
	"errors"

	"github.com/mouse-haven/internal/http/response"
	"github.com/mouse-haven/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			var logged error
			if rule.code >= response.CodeInternal {
				logged = err
			}
			respondError(c, rule.code, rule.key, logged)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var stateStoreErrorRules = []mappedHandlerError{
	{target: service.ErrStateStoreUnavailable, code: response.CodeUnavailable, key: "error.cart_update_failed"},
}

var cartMutationErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidProductID, code: response.CodeBadRequest, key: "error.product_id_invalid"},
}

var promoErrorRules = []mappedHandlerError{
	{target: service.ErrPromoCodeRequired, code: response.CodeBadRequest, key: "error.promo_code_required"},
	{target: service.ErrInvalidCode, code: response.CodeBadRequest, key: "error.promo_code_invalid"},
	{target: service.ErrEmptyCart, code: response.CodeBadRequest, key: "error.cart_empty"},
}

var checkoutReviewErrorRules = []mappedHandlerError{
	{target: service.ErrShippingTierInvalid, code: response.CodeBadRequest, key: "error.shipping_tier_invalid"},
}

var checkoutPlaceErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, key: "error.email_invalid"},
	{target: service.ErrShippingTierInvalid, code: response.CodeBadRequest, key: "error.shipping_tier_invalid"},
	{target: service.ErrEmptyCart, code: response.CodeBadRequest, key: "error.cart_empty"},
}

func respondCartMutationError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(cartMutationErrorRules, stateStoreErrorRules), response.CodeInternal, "error.cart_update_failed")
}

func respondPromoError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(promoErrorRules, stateStoreErrorRules), response.CodeInternal, "error.cart_update_failed")
}

func respondCheckoutReviewError(c *gin.Context, err error) {
	respondWithMappedError(c, err, checkoutReviewErrorRules, response.CodeInternal, "error.cart_fetch_failed")
}

func respondCheckoutPlaceError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(checkoutPlaceErrorRules, stateStoreErrorRules), response.CodeInternal, "error.checkout_failed")
}
