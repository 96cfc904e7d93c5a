package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/growbro/backend/internal/domain/shared"
)

// Domain error codes for the inventory context
const (
	ErrCodeInvalidQuantity         = "INVALID_QUANTITY"
	ErrCodeInsufficientStock       = "INSUFFICIENT_STOCK"
	ErrCodeExpiredBatchBlocked     = "EXPIRED_BATCH_BLOCKED"
	ErrCodeConstraintViolation     = "CONSTRAINT_VIOLATION"
	ErrCodeDuplicateIdempotencyKey = "DUPLICATE_IDEMPOTENCY_KEY"
)

// InvalidQuantityError indicates a quantity that violates movement or
// batch invariants (zero, wrong sign, or otherwise out of range)
type InvalidQuantityError struct {
	shared.DomainError
	Quantity decimal.Decimal
}

// NewInvalidQuantityError creates an invalid quantity error
func NewInvalidQuantityError(quantity decimal.Decimal, reason string) *InvalidQuantityError {
	return &InvalidQuantityError{
		DomainError: shared.DomainError{
			Code:    ErrCodeInvalidQuantity,
			Message: reason,
		},
		Quantity: quantity,
	}
}

// InsufficientStockError indicates the available pool cannot cover a
// requested quantity. Shortfall is the uncovered remainder.
type InsufficientStockError struct {
	shared.DomainError
	ItemID    string
	Requested decimal.Decimal
	Available decimal.Decimal
	Shortfall decimal.Decimal
}

// NewInsufficientStockError creates an insufficient stock error
func NewInsufficientStockError(itemID string, requested, available decimal.Decimal) *InsufficientStockError {
	shortfall := requested.Sub(available)
	return &InsufficientStockError{
		DomainError: shared.DomainError{
			Code: ErrCodeInsufficientStock,
			Message: fmt.Sprintf("insufficient stock for item %s: requested %s, available %s (short %s)",
				itemID, requested, available, shortfall),
		},
		ItemID:    itemID,
		Requested: requested,
		Available: available,
		Shortfall: shortfall,
	}
}

// ExpiredBatchBlockedError indicates a consumption would have to draw on
// expired batches and no override was supplied, or an override was
// requested without a reason
type ExpiredBatchBlockedError struct {
	shared.DomainError
	ItemID        string
	ExpiredOnHand decimal.Decimal
	UsableOnHand  decimal.Decimal
	Requested     decimal.Decimal
	MissingReason bool
}

// NewExpiredBatchBlockedError creates an expired batch blocked error
func NewExpiredBatchBlockedError(itemID string, requested, usable, expired decimal.Decimal) *ExpiredBatchBlockedError {
	return &ExpiredBatchBlockedError{
		DomainError: shared.DomainError{
			Code: ErrCodeExpiredBatchBlocked,
			Message: fmt.Sprintf("request for %s of item %s exceeds non-expired stock %s; %s is held in expired batches and requires an explicit override",
				requested, itemID, usable, expired),
		},
		ItemID:        itemID,
		Requested:     requested,
		UsableOnHand:  usable,
		ExpiredOnHand: expired,
	}
}

// NewOverrideReasonRequiredError creates an expired batch blocked error
// for an override attempt that did not supply a reason
func NewOverrideReasonRequiredError(itemID string) *ExpiredBatchBlockedError {
	return &ExpiredBatchBlockedError{
		DomainError: shared.DomainError{
			Code:    ErrCodeExpiredBatchBlocked,
			Message: fmt.Sprintf("consuming expired stock of item %s requires an override reason", itemID),
		},
		ItemID:        itemID,
		MissingReason: true,
	}
}

// ConstraintViolationError indicates a persistence-level uniqueness or
// integrity constraint was violated
type ConstraintViolationError struct {
	shared.DomainError
	Constraint string
}

// NewConstraintViolationError creates a constraint violation error
func NewConstraintViolationError(constraint, message string) *ConstraintViolationError {
	return &ConstraintViolationError{
		DomainError: shared.DomainError{
			Code:    ErrCodeConstraintViolation,
			Message: message,
		},
		Constraint: constraint,
	}
}
