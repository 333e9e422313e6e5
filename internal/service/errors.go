package service

import "errors"

var (
	// ErrInvalidCode 优惠码不存在
	ErrInvalidCode = errors.New("invalid promo code")
	// ErrEmptyCart 购物车为空（小计 <= 0）
	ErrEmptyCart = errors.New("cart is empty")
	// ErrPromoCodeRequired 未填写优惠码
	ErrPromoCodeRequired = errors.New("promo code required")
	// ErrShippingTierInvalid 配送档位不存在
	ErrShippingTierInvalid = errors.New("shipping tier invalid")
	// ErrInvalidEmail 邮箱格式错误
	ErrInvalidEmail = errors.New("invalid email")
	// ErrInvalidProductID 商品ID非法
	ErrInvalidProductID = errors.New("invalid product id")
	// ErrStateStoreUnavailable 状态存储读写失败
	ErrStateStoreUnavailable = errors.New("state store unavailable")
)
