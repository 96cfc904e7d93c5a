package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/growbro/backend/internal/domain/inventory"
	"github.com/growbro/backend/internal/domain/shared"
)

// GormMovementRepository implements the append-only MovementRepository
// using GORM. The interface deliberately has no update or delete methods;
// corrections are recorded as new adjustment movements.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Save appends a single movement to the ledger
func (r *GormMovementRepository) Save(ctx context.Context, movement *inventory.Movement) error {
	if err := r.db.WithContext(ctx).Create(movement).Error; err != nil {
		return translateConstraintError(err)
	}
	return nil
}

// SaveAll appends a group of movements to the ledger in one statement
func (r *GormMovementRepository) SaveAll(ctx context.Context, movements []*inventory.Movement) error {
	if len(movements) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(movements).Error; err != nil {
		return translateConstraintError(err)
	}
	return nil
}

// FindByID finds a movement by its ID
func (r *GormMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Movement, error) {
	var movement inventory.Movement
	if err := r.db.WithContext(ctx).First(&movement, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// FindByExternalKey finds the movement carrying a client idempotency key
func (r *GormMovementRepository) FindByExternalKey(ctx context.Context, key string) (*inventory.Movement, error) {
	var movement inventory.Movement
	if err := r.db.WithContext(ctx).First(&movement, "external_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// FindByGroupID returns all movements of one logical stock operation
func (r *GormMovementRepository) FindByGroupID(ctx context.Context, groupID uuid.UUID) ([]*inventory.Movement, error) {
	var movements []*inventory.Movement
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByItem returns the full ledger of one item in recorded order
func (r *GormMovementRepository) FindByItem(ctx context.Context, itemID uuid.UUID) ([]*inventory.Movement, error) {
	var movements []*inventory.Movement
	if err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// SumDeltaByItem folds the item's ledger into its on-hand quantity
func (r *GormMovementRepository) SumDeltaByItem(ctx context.Context, itemID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&inventory.Movement{}).
		Where("item_id = ?", itemID).
		Select("SUM(quantity_delta)").
		Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// FindAll returns movements matching the filter, newest first
func (r *GormMovementRepository) FindAll(ctx context.Context, filter inventory.MovementFilter) ([]*inventory.Movement, error) {
	var movements []*inventory.Movement
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.Movement{}), filter)
	query = query.Order("created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// Count returns the number of movements matching the filter
func (r *GormMovementRepository) Count(ctx context.Context, filter inventory.MovementFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.Movement{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormMovementRepository) applyFilter(query *gorm.DB, filter inventory.MovementFilter) *gorm.DB {
	if filter.ItemID != nil {
		query = query.Where("item_id = ?", *filter.ItemID)
	}
	if filter.BatchID != nil {
		query = query.Where("batch_id = ?", *filter.BatchID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.TaskID != nil {
		query = query.Where("task_id = ?", *filter.TaskID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}
	return query
}

// translateConstraintError maps unique index violations to a domain error
// so the application layer can detect idempotency key races without
// knowing the driver
func translateConstraintError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key") {
		return inventory.NewConstraintViolationError("unique", err.Error())
	}
	return err
}

// Ensure GormMovementRepository implements MovementRepository
var _ inventory.MovementRepository = (*GormMovementRepository)(nil)
