package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/growbro/backend/internal/domain/inventory"
)

// CreateItemRequest carries the data to create a catalog item
type CreateItemRequest struct {
	Name            string  `json:"name" binding:"required"`
	Category        string  `json:"category"`
	Unit            string  `json:"unit" binding:"required"`
	TrackingMode    string  `json:"tracking_mode"`
	SKU             *string `json:"sku"`
	Barcode         *string `json:"barcode"`
	MinStock        string  `json:"min_stock"`
	ReorderMultiple string  `json:"reorder_multiple"`
	LeadTimeDays    int     `json:"lead_time_days"`
	Notes           string  `json:"notes"`
}

// UpdateItemRequest carries the data to update a catalog item
type UpdateItemRequest struct {
	Name            *string `json:"name"`
	Category        *string `json:"category"`
	SKU             *string `json:"sku"`
	Barcode         *string `json:"barcode"`
	MinStock        *string `json:"min_stock"`
	ReorderMultiple *string `json:"reorder_multiple"`
	LeadTimeDays    *int    `json:"lead_time_days"`
	Notes           *string `json:"notes"`
}

// ReceiveStockRequest records a new batch of stock entering the system
type ReceiveStockRequest struct {
	ItemID           uuid.UUID  `json:"item_id" binding:"required"`
	Quantity         string     `json:"quantity" binding:"required"`
	CostPerUnitMinor int64      `json:"cost_per_unit_minor"`
	LotNumber        string     `json:"lot_number"`
	ReceivedAt       *time.Time `json:"received_at"`
	ExpiresOn        *time.Time `json:"expires_on"`
	SupplierRef      string     `json:"supplier_ref"`
	ExternalKey      string     `json:"external_key"`
	RecordedBy       string     `json:"recorded_by"`
}

// ConsumeStockRequest records stock being drawn for a task
type ConsumeStockRequest struct {
	ItemID         uuid.UUID  `json:"item_id" binding:"required"`
	Quantity       string     `json:"quantity" binding:"required"`
	TaskID         *uuid.UUID `json:"task_id"`
	Reason         string     `json:"reason"`
	AllowExpired   bool       `json:"allow_expired"`
	OverrideReason string     `json:"override_reason"`
	ExternalKey    string     `json:"external_key"`
	RecordedBy     string     `json:"recorded_by"`
}

// AdjustStockRequest records a manual correction against a batch or item
type AdjustStockRequest struct {
	ItemID      uuid.UUID  `json:"item_id" binding:"required"`
	BatchID     *uuid.UUID `json:"batch_id"`
	Delta       string     `json:"delta" binding:"required"`
	Reason      string     `json:"reason" binding:"required"`
	ExternalKey string     `json:"external_key"`
	RecordedBy  string     `json:"recorded_by"`
}

// BatchLine describes one batch's share of a stock operation result
type BatchLine struct {
	BatchID          uuid.UUID       `json:"batch_id"`
	LotNumber        string          `json:"lot_number,omitempty"`
	Quantity         decimal.Decimal `json:"quantity"`
	CostPerUnitMinor int64           `json:"cost_per_unit_minor"`
	LineCostMinor    int64           `json:"line_cost_minor"`
	RemainingInBatch decimal.Decimal `json:"remaining_in_batch"`
	Expired          bool            `json:"expired,omitempty"`
}

// StockOperationResult is returned by receive, consume, and adjust
type StockOperationResult struct {
	GroupID        uuid.UUID       `json:"group_id"`
	ItemID         uuid.UUID       `json:"item_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	TotalCostMinor int64           `json:"total_cost_minor"`
	Lines          []BatchLine     `json:"lines"`
	Replayed       bool            `json:"replayed,omitempty"`
}

// StockLevel reports the derived stock position of one item
type StockLevel struct {
	ItemID         uuid.UUID       `json:"item_id"`
	ItemName       string          `json:"item_name"`
	Unit           string          `json:"unit"`
	OnHand         decimal.Decimal `json:"on_hand"`
	UsableOnHand   decimal.Decimal `json:"usable_on_hand"`
	ExpiredOnHand  decimal.Decimal `json:"expired_on_hand"`
	ValuationMinor int64           `json:"valuation_minor"`
	BatchCount     int             `json:"batch_count"`
	MinStock       decimal.Decimal `json:"min_stock"`
	BelowThreshold bool            `json:"below_threshold"`
}

// BatchStatus reports one batch inside a stock level breakdown
type BatchStatus struct {
	BatchID          uuid.UUID       `json:"batch_id"`
	LotNumber        string          `json:"lot_number,omitempty"`
	Remaining        decimal.Decimal `json:"remaining"`
	CostPerUnitMinor int64           `json:"cost_per_unit_minor"`
	ValueMinor       int64           `json:"value_minor"`
	ReceivedAt       time.Time       `json:"received_at"`
	ExpiresOn        *time.Time      `json:"expires_on,omitempty"`
	Expired          bool            `json:"expired"`
}

// ReorderCandidate describes an item that has fallen below its minimum
type ReorderCandidate struct {
	ItemID            uuid.UUID       `json:"item_id"`
	ItemName          string          `json:"item_name"`
	Unit              string          `json:"unit"`
	OnHand            decimal.Decimal `json:"on_hand"`
	MinStock          decimal.Decimal `json:"min_stock"`
	SuggestedQuantity decimal.Decimal `json:"suggested_quantity"`
	LeadTimeDays      int             `json:"lead_time_days"`
}

// newStockOperationResult converts an allocation plan into an operation result
func newStockOperationResult(groupID uuid.UUID, plan *inventory.AllocationPlan) *StockOperationResult {
	lines := make([]BatchLine, 0, len(plan.Deductions))
	for _, d := range plan.Deductions {
		lines = append(lines, BatchLine{
			BatchID:          d.BatchID,
			LotNumber:        d.LotNumber,
			Quantity:         d.Quantity,
			CostPerUnitMinor: d.CostPerUnitMinor,
			LineCostMinor:    d.LineCostMinor,
			RemainingInBatch: d.RemainingInBatch,
			Expired:          d.Expired,
		})
	}
	return &StockOperationResult{
		GroupID:        groupID,
		ItemID:         plan.ItemID,
		Quantity:       plan.TotalQuantity,
		TotalCostMinor: plan.TotalCostMinor,
		Lines:          lines,
	}
}
