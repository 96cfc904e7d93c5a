package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/growbro/backend/internal/domain/shared"
)

// MovementType represents the kind of stock movement
type MovementType string

const (
	// MovementReceipt records stock entering the system
	MovementReceipt MovementType = "RECEIPT"
	// MovementConsumption records stock leaving the system through use
	MovementConsumption MovementType = "CONSUMPTION"
	// MovementAdjustment records a manual correction in either direction
	MovementAdjustment MovementType = "ADJUSTMENT"
)

// IsValid checks if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementReceipt, MovementConsumption, MovementAdjustment:
		return true
	}
	return false
}

// Movement is an immutable ledger entry recording a single stock change
// against one batch. Movements are never updated or deleted; corrections
// are recorded as new adjustment movements.
type Movement struct {
	shared.BaseEntity
	ItemID           uuid.UUID       `gorm:"type:uuid;not null;index:idx_movements_item"`
	BatchID          *uuid.UUID      `gorm:"type:uuid;index"`
	Type             MovementType    `gorm:"not null;size:20"`
	QuantityDelta    decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	CostPerUnitMinor *int64
	Reason           string          `gorm:"size:500"`
	TaskID           *uuid.UUID      `gorm:"type:uuid;index"`
	ExternalKey      *string         `gorm:"size:128;uniqueIndex:idx_movements_external_key"`
	GroupID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	RecordedBy       string          `gorm:"size:100"`
}

// TableName returns the table name for GORM
func (Movement) TableName() string {
	return "movements"
}

// NewReceiptMovement creates a movement recording stock received into a batch
func NewReceiptMovement(itemID, batchID uuid.UUID, quantity decimal.Decimal, costPerUnitMinor int64, groupID uuid.UUID) (*Movement, error) {
	if !quantity.IsPositive() {
		return nil, NewInvalidQuantityError(quantity, "receipt quantity must be positive")
	}
	cost := costPerUnitMinor
	return &Movement{
		BaseEntity:       shared.NewBaseEntity(),
		ItemID:           itemID,
		BatchID:          &batchID,
		Type:             MovementReceipt,
		QuantityDelta:    quantity,
		CostPerUnitMinor: &cost,
		GroupID:          groupID,
	}, nil
}

// NewConsumptionMovement creates a movement recording stock drawn from a batch.
// The quantity delta is stored negative.
func NewConsumptionMovement(itemID, batchID uuid.UUID, quantity decimal.Decimal, costPerUnitMinor int64, groupID uuid.UUID) (*Movement, error) {
	if !quantity.IsPositive() {
		return nil, NewInvalidQuantityError(quantity, "consumption quantity must be positive")
	}
	cost := costPerUnitMinor
	return &Movement{
		BaseEntity:       shared.NewBaseEntity(),
		ItemID:           itemID,
		BatchID:          &batchID,
		Type:             MovementConsumption,
		QuantityDelta:    quantity.Neg(),
		CostPerUnitMinor: &cost,
		GroupID:          groupID,
	}, nil
}

// NewSimpleReceiptMovement creates a receipt for an item tracked without
// batches: one movement, no batch, no cost snapshot.
func NewSimpleReceiptMovement(itemID uuid.UUID, quantity decimal.Decimal, groupID uuid.UUID) (*Movement, error) {
	if !quantity.IsPositive() {
		return nil, NewInvalidQuantityError(quantity, "receipt quantity must be positive")
	}
	return &Movement{
		BaseEntity:    shared.NewBaseEntity(),
		ItemID:        itemID,
		Type:          MovementReceipt,
		QuantityDelta: quantity,
		GroupID:       groupID,
	}, nil
}

// NewSimpleConsumptionMovement creates a consumption for an item tracked
// without batches. The quantity delta is stored negative.
func NewSimpleConsumptionMovement(itemID uuid.UUID, quantity decimal.Decimal, groupID uuid.UUID) (*Movement, error) {
	if !quantity.IsPositive() {
		return nil, NewInvalidQuantityError(quantity, "consumption quantity must be positive")
	}
	return &Movement{
		BaseEntity:    shared.NewBaseEntity(),
		ItemID:        itemID,
		Type:          MovementConsumption,
		QuantityDelta: quantity.Neg(),
		GroupID:       groupID,
	}, nil
}

// NewAdjustmentMovement creates a movement recording a manual correction.
// The delta may be positive or negative but never zero, and a reason is
// required.
func NewAdjustmentMovement(itemID uuid.UUID, batchID *uuid.UUID, delta decimal.Decimal, reason string, groupID uuid.UUID) (*Movement, error) {
	if delta.IsZero() {
		return nil, NewInvalidQuantityError(delta, "adjustment delta cannot be zero")
	}
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_MOVEMENT", "adjustment reason is required")
	}
	return &Movement{
		BaseEntity:    shared.NewBaseEntity(),
		ItemID:        itemID,
		BatchID:       batchID,
		Type:          MovementAdjustment,
		QuantityDelta: delta,
		Reason:        reason,
		GroupID:       groupID,
	}, nil
}

// WithExternalKey attaches a client-supplied idempotency key
func (m *Movement) WithExternalKey(key string) *Movement {
	if key != "" {
		m.ExternalKey = &key
	}
	return m
}

// WithReason attaches a free-form reason
func (m *Movement) WithReason(reason string) *Movement {
	m.Reason = reason
	return m
}

// WithTask links the movement to the task that triggered it
func (m *Movement) WithTask(taskID uuid.UUID) *Movement {
	if taskID != uuid.Nil {
		m.TaskID = &taskID
	}
	return m
}

// WithRecordedBy attaches the acting user
func (m *Movement) WithRecordedBy(user string) *Movement {
	m.RecordedBy = user
	return m
}

// Validate checks the movement invariants
func (m *Movement) Validate() error {
	if m.ItemID == uuid.Nil {
		return shared.NewDomainError("INVALID_MOVEMENT", "item ID is required")
	}
	if !m.Type.IsValid() {
		return shared.NewDomainError("INVALID_MOVEMENT", "invalid movement type")
	}
	if m.GroupID == uuid.Nil {
		return shared.NewDomainError("INVALID_MOVEMENT", "group ID is required")
	}
	switch m.Type {
	case MovementReceipt:
		if !m.QuantityDelta.IsPositive() {
			return NewInvalidQuantityError(m.QuantityDelta, "receipt delta must be positive")
		}
	case MovementConsumption:
		if !m.QuantityDelta.IsNegative() {
			return NewInvalidQuantityError(m.QuantityDelta, "consumption delta must be negative")
		}
	case MovementAdjustment:
		if m.QuantityDelta.IsZero() {
			return NewInvalidQuantityError(m.QuantityDelta, "adjustment delta cannot be zero")
		}
		if m.Reason == "" {
			return shared.NewDomainError("INVALID_MOVEMENT", "adjustment reason is required")
		}
	}
	return nil
}

// MovedAt returns when the movement was recorded
func (m *Movement) MovedAt() time.Time {
	return m.CreatedAt
}
