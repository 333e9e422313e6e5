package queue

import (
	"encoding/json"
	"time"

	"github.com/mouse-haven/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCheckoutConfirmation 结算确认通知任务
	TaskCheckoutConfirmation = constants.TaskCheckoutConfirmation
	// TaskCatalogRefresh 目录刷新任务
	TaskCatalogRefresh = constants.TaskCatalogRefresh
)

// ConfirmationLine 确认单中的一行（"名称 xN" 与行小计）
type ConfirmationLine struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

// CheckoutConfirmationPayload 结算确认任务载荷（金额均为 2 位小数字符串）
type CheckoutConfirmationPayload struct {
	ConfirmationID string             `json:"confirmation_id"`
	SessionID      string             `json:"session_id"`
	Email          string             `json:"email"`
	ShippingTier   string             `json:"shipping_tier"`
	Lines          []ConfirmationLine `json:"lines"`
	Subtotal       string             `json:"subtotal"`
	Shipping       string             `json:"shipping"`
	Discount       string             `json:"discount"`
	Total          string             `json:"total"`
	PlacedAt       time.Time          `json:"placed_at"`
}

// CatalogRefreshPayload 目录刷新任务载荷
type CatalogRefreshPayload struct {
	Reason string `json:"reason"`
}

// NewCheckoutConfirmationTask 创建结算确认任务
func NewCheckoutConfirmationTask(payload CheckoutConfirmationPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCheckoutConfirmation, body), nil
}

// NewCatalogRefreshTask 创建目录刷新任务
func NewCatalogRefreshTask(payload CatalogRefreshPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCatalogRefresh, body), nil
}
