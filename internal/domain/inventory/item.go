package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/growbro/backend/internal/domain/shared"
)

// TrackingMode determines how stock levels are maintained for an item
type TrackingMode string

const (
	// TrackingSimple tracks a single quantity without batch granularity
	TrackingSimple TrackingMode = "simple"
	// TrackingBatched tracks stock per batch with expiry and cost
	TrackingBatched TrackingMode = "batched"
)

// IsValid checks if the tracking mode is valid
func (m TrackingMode) IsValid() bool {
	return m == TrackingSimple || m == TrackingBatched
}

// UnitOfMeasure represents the unit an item quantity is expressed in
type UnitOfMeasure string

const (
	UnitGram       UnitOfMeasure = "g"
	UnitKilogram   UnitOfMeasure = "kg"
	UnitMilliliter UnitOfMeasure = "ml"
	UnitLiter      UnitOfMeasure = "l"
	UnitPiece      UnitOfMeasure = "pc"
)

// IsValid checks if the unit of measure is valid
func (u UnitOfMeasure) IsValid() bool {
	switch u {
	case UnitGram, UnitKilogram, UnitMilliliter, UnitLiter, UnitPiece:
		return true
	}
	return false
}

// Item represents a consumable catalog entry
type Item struct {
	shared.BaseAggregateRoot
	Name            string          `gorm:"not null;size:255"`
	Category        string          `gorm:"size:100;index"`
	Unit            UnitOfMeasure   `gorm:"not null;size:10"`
	TrackingMode    TrackingMode    `gorm:"not null;size:20;default:'batched'"`
	Consumable      bool            `gorm:"not null;default:true"`
	SKU             *string         `gorm:"size:64;uniqueIndex:idx_items_sku,where:deleted_at IS NULL"`
	Barcode         *string         `gorm:"size:64;uniqueIndex:idx_items_barcode,where:deleted_at IS NULL"`
	MinStock        decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0"`
	ReorderMultiple decimal.Decimal `gorm:"type:decimal(20,6);not null;default:1"`
	LeadTimeDays    int             `gorm:"not null;default:0"`
	Notes           string          `gorm:"type:text"`
	DeletedAt       gorm.DeletedAt  `gorm:"index"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "items"
}

// NewItem creates a new catalog item
func NewItem(name string, unit UnitOfMeasure, mode TrackingMode) (*Item, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ITEM", "item name is required")
	}
	if !unit.IsValid() {
		return nil, shared.NewDomainError("INVALID_ITEM", fmt.Sprintf("invalid unit of measure: %s", unit))
	}
	if !mode.IsValid() {
		return nil, shared.NewDomainError("INVALID_ITEM", fmt.Sprintf("invalid tracking mode: %s", mode))
	}

	return &Item{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Unit:              unit,
		TrackingMode:      mode,
		Consumable:        true,
		MinStock:          decimal.Zero,
		ReorderMultiple:   decimal.NewFromInt(1),
	}, nil
}

// Validate checks the item invariants
func (i *Item) Validate() error {
	if i.Name == "" {
		return shared.NewDomainError("INVALID_ITEM", "item name is required")
	}
	if !i.Unit.IsValid() {
		return shared.NewDomainError("INVALID_ITEM", fmt.Sprintf("invalid unit of measure: %s", i.Unit))
	}
	if !i.TrackingMode.IsValid() {
		return shared.NewDomainError("INVALID_ITEM", fmt.Sprintf("invalid tracking mode: %s", i.TrackingMode))
	}
	if i.MinStock.IsNegative() {
		return shared.NewDomainError("INVALID_ITEM", "minimum stock cannot be negative")
	}
	if !i.ReorderMultiple.IsPositive() {
		return shared.NewDomainError("INVALID_ITEM", "reorder multiple must be positive")
	}
	if i.LeadTimeDays < 0 {
		return shared.NewDomainError("INVALID_ITEM", "lead time cannot be negative")
	}
	return nil
}

// SetThresholds updates the reorder configuration of the item
func (i *Item) SetThresholds(minStock, reorderMultiple decimal.Decimal, leadTimeDays int) error {
	if minStock.IsNegative() {
		return shared.NewDomainError("INVALID_ITEM", "minimum stock cannot be negative")
	}
	if !reorderMultiple.IsPositive() {
		return shared.NewDomainError("INVALID_ITEM", "reorder multiple must be positive")
	}
	if leadTimeDays < 0 {
		return shared.NewDomainError("INVALID_ITEM", "lead time cannot be negative")
	}
	i.MinStock = minStock
	i.ReorderMultiple = reorderMultiple
	i.LeadTimeDays = leadTimeDays
	return nil
}

// NeedsReorder reports whether on-hand stock has fallen below the minimum
func (i *Item) NeedsReorder(onHand decimal.Decimal) bool {
	if i.MinStock.IsZero() {
		return false
	}
	return onHand.LessThan(i.MinStock)
}

// SuggestedReorderQuantity computes how much to order to return above the
// minimum, rounded up to the item's reorder multiple
func (i *Item) SuggestedReorderQuantity(onHand decimal.Decimal) decimal.Decimal {
	deficit := i.MinStock.Sub(onHand)
	if !deficit.IsPositive() {
		return decimal.Zero
	}
	multiples := deficit.Div(i.ReorderMultiple).Ceil()
	return i.ReorderMultiple.Mul(multiples)
}
