package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/growbro/backend/internal/domain/shared"
)

// Event types for the inventory context
const (
	EventStockReceived       = "inventory.stock_received"
	EventStockConsumed       = "inventory.stock_consumed"
	EventStockAdjusted       = "inventory.stock_adjusted"
	EventStockBelowThreshold = "inventory.stock_below_threshold"
)

// StockReceivedEvent is published when a new batch enters the system
type StockReceivedEvent struct {
	shared.BaseDomainEvent
	ItemID           uuid.UUID       `json:"item_id"`
	BatchID          uuid.UUID       `json:"batch_id"`
	Quantity         decimal.Decimal `json:"quantity"`
	CostPerUnitMinor int64           `json:"cost_per_unit_minor"`
}

// NewStockReceivedEvent creates a stock received event
func NewStockReceivedEvent(itemID, batchID uuid.UUID, quantity decimal.Decimal, costPerUnitMinor int64) *StockReceivedEvent {
	return &StockReceivedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventStockReceived, "Item", itemID),
		ItemID:           itemID,
		BatchID:          batchID,
		Quantity:         quantity,
		CostPerUnitMinor: costPerUnitMinor,
	}
}

// StockConsumedEvent is published when stock is drawn from one or more batches
type StockConsumedEvent struct {
	shared.BaseDomainEvent
	ItemID         uuid.UUID       `json:"item_id"`
	GroupID        uuid.UUID       `json:"group_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	TotalCostMinor int64           `json:"total_cost_minor"`
	BatchesTouched int             `json:"batches_touched"`
	UsedExpired    bool            `json:"used_expired"`
}

// NewStockConsumedEvent creates a stock consumed event
func NewStockConsumedEvent(itemID, groupID uuid.UUID, quantity decimal.Decimal, totalCostMinor int64, batchesTouched int, usedExpired bool) *StockConsumedEvent {
	return &StockConsumedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventStockConsumed, "Item", itemID),
		ItemID:          itemID,
		GroupID:         groupID,
		Quantity:        quantity,
		TotalCostMinor:  totalCostMinor,
		BatchesTouched:  batchesTouched,
		UsedExpired:     usedExpired,
	}
}

// StockAdjustedEvent is published when a manual correction is recorded
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	ItemID  uuid.UUID       `json:"item_id"`
	BatchID *uuid.UUID      `json:"batch_id,omitempty"`
	Delta   decimal.Decimal `json:"delta"`
	Reason  string          `json:"reason"`
}

// NewStockAdjustedEvent creates a stock adjusted event
func NewStockAdjustedEvent(itemID uuid.UUID, batchID *uuid.UUID, delta decimal.Decimal, reason string) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventStockAdjusted, "Item", itemID),
		ItemID:          itemID,
		BatchID:         batchID,
		Delta:           delta,
		Reason:          reason,
	}
}

// StockBelowThresholdEvent is published when a movement leaves an item
// below its configured minimum stock
type StockBelowThresholdEvent struct {
	shared.BaseDomainEvent
	ItemID    uuid.UUID       `json:"item_id"`
	ItemName  string          `json:"item_name"`
	OnHand    decimal.Decimal `json:"on_hand"`
	MinStock  decimal.Decimal `json:"min_stock"`
	Suggested decimal.Decimal `json:"suggested_reorder_quantity"`
}

// NewStockBelowThresholdEvent creates a stock below threshold event
func NewStockBelowThresholdEvent(item *Item, onHand decimal.Decimal) *StockBelowThresholdEvent {
	return &StockBelowThresholdEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventStockBelowThreshold, "Item", item.ID),
		ItemID:          item.ID,
		ItemName:        item.Name,
		OnHand:          onHand,
		MinStock:        item.MinStock,
		Suggested:       item.SuggestedReorderQuantity(onHand),
	}
}
