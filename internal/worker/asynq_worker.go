package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mouse-haven/internal/logger"
	"github.com/mouse-haven/internal/provider"
	"github.com/mouse-haven/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCheckoutConfirmation, c.handleCheckoutConfirmation)
	mux.HandleFunc(queue.TaskCatalogRefresh, c.handleCatalogRefresh)
}

// handleCheckoutConfirmation 模拟发送确认通知（无邮件通道，写结构化日志）
func (c *Consumer) handleCheckoutConfirmation(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_checkout_confirmation_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CheckoutConfirmationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_checkout_confirmation_unmarshal_failed", "error", err)
		return err
	}
	receiver := strings.TrimSpace(payload.Email)
	if receiver == "" || len(payload.Lines) == 0 {
		logger.Debugw("worker_checkout_confirmation_skip_invalid_payload",
			"confirmation_id", payload.ConfirmationID,
			"lines", len(payload.Lines),
		)
		return nil
	}
	logger.Infow("worker_checkout_confirmation_sent",
		"confirmation_id", payload.ConfirmationID,
		"session_id", payload.SessionID,
		"receiver", receiver,
		"shipping_tier", payload.ShippingTier,
		"total", payload.Total,
		"body", buildConfirmationBody(payload),
	)
	return nil
}

func (c *Consumer) handleCatalogRefresh(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || c.Catalog == nil {
		logger.Debugw("worker_catalog_refresh_skip_nil", "consumer_nil", c == nil)
		return nil
	}
	var payload queue.CatalogRefreshPayload
	if task != nil && len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			logger.Warnw("worker_catalog_refresh_unmarshal_failed", "error", err)
			return err
		}
	}
	if err := c.Catalog.Refresh(ctx); err != nil {
		logger.Warnw("worker_catalog_refresh_failed", "reason", payload.Reason, "error", err)
		return err
	}
	logger.Debugw("worker_catalog_refresh_done", "reason", payload.Reason, "products", c.Catalog.Len())
	return nil
}

// buildConfirmationBody 确认单正文："名称 xN - $金额" 每行一项，末行为合计
func buildConfirmationBody(payload queue.CheckoutConfirmationPayload) string {
	var b strings.Builder
	for _, line := range payload.Lines {
		name := strings.TrimSpace(line.Name)
		if name == "" {
			name = fmt.Sprintf("#%d", line.ProductID)
		}
		fmt.Fprintf(&b, "%s x%d - $%s\n", name, line.Quantity, line.LineTotal)
	}
	if payload.Discount != "" && payload.Discount != "0.00" {
		fmt.Fprintf(&b, "Discount: -$%s\n", payload.Discount)
	}
	fmt.Fprintf(&b, "Shipping: $%s\n", payload.Shipping)
	fmt.Fprintf(&b, "Total: $%s", payload.Total)
	return b.String()
}
