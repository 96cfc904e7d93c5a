package inventory

import (
	"context"

	"go.uber.org/zap"

	"github.com/growbro/backend/internal/domain/inventory"
	"github.com/growbro/backend/internal/domain/shared"
)

// StockBelowThresholdHandler reacts to items dropping under their minimum
// stock. For now it records the condition; a notification channel can hang
// off this handler later.
type StockBelowThresholdHandler struct {
	logger *zap.Logger
}

// NewStockBelowThresholdHandler creates a new handler
func NewStockBelowThresholdHandler(logger *zap.Logger) *StockBelowThresholdHandler {
	return &StockBelowThresholdHandler{logger: logger}
}

// Handle processes a stock below threshold event
func (h *StockBelowThresholdHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*inventory.StockBelowThresholdEvent)
	if !ok {
		return nil
	}
	h.logger.Warn("item below minimum stock",
		zap.String("item_id", e.ItemID.String()),
		zap.String("item_name", e.ItemName),
		zap.String("on_hand", e.OnHand.String()),
		zap.String("min_stock", e.MinStock.String()),
		zap.String("suggested_reorder", e.Suggested.String()))
	return nil
}

// EventTypes returns the event types this handler subscribes to
func (h *StockBelowThresholdHandler) EventTypes() []string {
	return []string{inventory.EventStockBelowThreshold}
}
