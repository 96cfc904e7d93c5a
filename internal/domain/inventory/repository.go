package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemFilter narrows item listings
type ItemFilter struct {
	Category   string
	Consumable *bool
	Search     string
	Limit      int
	Offset     int
}

// ItemRepository defines the persistence interface for catalog items
type ItemRepository interface {
	Save(ctx context.Context, item *Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	// FindByIDForUpdate loads the item under a row lock. Operations on
	// items tracked without batches serialize on this lock, since they
	// have no batch rows to lock.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Item, error)
	FindBySKU(ctx context.Context, sku string) (*Item, error)
	FindByBarcode(ctx context.Context, barcode string) (*Item, error)
	FindAll(ctx context.Context, filter ItemFilter) ([]*Item, error)
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter ItemFilter) (int64, error)
}

// BatchRepository defines the persistence interface for stock batches
type BatchRepository interface {
	Save(ctx context.Context, batch *Batch) error
	FindByID(ctx context.Context, id uuid.UUID) (*Batch, error)
	// FindByIDForUpdate loads one batch under a row lock so a correction
	// against it cannot race a concurrent allocation
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Batch, error)
	FindByItem(ctx context.Context, itemID uuid.UUID) ([]*Batch, error)
	// FindByItemForUpdate loads all batches of an item under a row lock,
	// serializing concurrent allocations against the same item
	FindByItemForUpdate(ctx context.Context, itemID uuid.UUID) ([]*Batch, error)
	FindExpiringSoon(ctx context.Context, before time.Time, limit int) ([]*Batch, error)
	Update(ctx context.Context, batch *Batch) error
}

// MovementFilter narrows movement listings
type MovementFilter struct {
	ItemID  *uuid.UUID
	BatchID *uuid.UUID
	Type    *MovementType
	TaskID  *uuid.UUID
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}

// MovementRepository defines the persistence interface for the movement
// ledger. The ledger is append-only: there are no update or delete
// operations.
type MovementRepository interface {
	Save(ctx context.Context, movement *Movement) error
	SaveAll(ctx context.Context, movements []*Movement) error
	FindByID(ctx context.Context, id uuid.UUID) (*Movement, error)
	FindByExternalKey(ctx context.Context, key string) (*Movement, error)
	FindByGroupID(ctx context.Context, groupID uuid.UUID) ([]*Movement, error)
	// FindByItem returns the full ledger of one item in recorded order,
	// for folding into derived stock positions
	FindByItem(ctx context.Context, itemID uuid.UUID) ([]*Movement, error)
	// SumDeltaByItem folds the item's ledger into its on-hand quantity
	SumDeltaByItem(ctx context.Context, itemID uuid.UUID) (decimal.Decimal, error)
	FindAll(ctx context.Context, filter MovementFilter) ([]*Movement, error)
	Count(ctx context.Context, filter MovementFilter) (int64, error)
}
