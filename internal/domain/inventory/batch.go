package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/growbro/backend/internal/domain/shared"
)

// Batch represents a received lot of stock for a batched item.
// Cost is frozen at receipt time and expressed in minor currency units.
type Batch struct {
	shared.BaseEntity
	ItemID           uuid.UUID       `gorm:"type:uuid;not null;index:idx_batches_item"`
	LotNumber        string          `gorm:"size:100"`
	Quantity         decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	CostPerUnitMinor int64           `gorm:"not null"`
	ReceivedAt       time.Time       `gorm:"not null;index:idx_batches_item"`
	ExpiresOn        *time.Time      `gorm:"index"`
	SupplierRef      string          `gorm:"size:255"`
}

// TableName returns the table name for GORM
func (Batch) TableName() string {
	return "batches"
}

// NewBatch creates a new stock batch
func NewBatch(itemID uuid.UUID, quantity decimal.Decimal, costPerUnitMinor int64, receivedAt time.Time, expiresOn *time.Time) (*Batch, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BATCH", "item ID is required")
	}
	if !quantity.IsPositive() {
		return nil, NewInvalidQuantityError(quantity, "batch quantity must be positive")
	}
	if costPerUnitMinor < 0 {
		return nil, shared.NewDomainError("INVALID_BATCH", "unit cost cannot be negative")
	}
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}

	return &Batch{
		BaseEntity:       shared.NewBaseEntity(),
		ItemID:           itemID,
		Quantity:         quantity,
		CostPerUnitMinor: costPerUnitMinor,
		ReceivedAt:       receivedAt,
		ExpiresOn:        expiresOn,
	}, nil
}

// IsExpired reports whether the batch has expired at the given time.
// A batch with no expiry never expires. Expiry is strict: a batch
// expiring exactly at the reference time is not yet expired.
func (b *Batch) IsExpired(at time.Time) bool {
	if b.ExpiresOn == nil {
		return false
	}
	return b.ExpiresOn.Before(at)
}

// HasStock reports whether the batch has any remaining quantity
func (b *Batch) HasStock() bool {
	return b.Quantity.IsPositive()
}

// IsAvailable reports whether the batch can serve an allocation at the
// given time, i.e. it has stock and is not expired
func (b *Batch) IsAvailable(at time.Time) bool {
	return b.HasStock() && !b.IsExpired(at)
}

// Deduct removes quantity from the batch
func (b *Batch) Deduct(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return NewInvalidQuantityError(quantity, "deduction quantity must be positive")
	}
	if quantity.GreaterThan(b.Quantity) {
		return shared.NewDomainError("INVALID_BATCH",
			fmt.Sprintf("cannot deduct %s from batch with %s remaining", quantity, b.Quantity))
	}
	b.Quantity = b.Quantity.Sub(quantity)
	b.UpdatedAt = time.Now()
	return nil
}

// Add increases the batch quantity, used by positive adjustments
func (b *Batch) Add(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return NewInvalidQuantityError(quantity, "added quantity must be positive")
	}
	b.Quantity = b.Quantity.Add(quantity)
	b.UpdatedAt = time.Now()
	return nil
}

// RemainingValueMinor returns the valuation of the batch remainder in
// minor currency units, rounded half up
func (b *Batch) RemainingValueMinor() int64 {
	return b.Quantity.Mul(decimal.NewFromInt(b.CostPerUnitMinor)).Round(0).IntPart()
}
