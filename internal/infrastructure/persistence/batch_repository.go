package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/growbro/backend/internal/domain/inventory"
	"github.com/growbro/backend/internal/domain/shared"
)

// GormBatchRepository implements BatchRepository using GORM
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// Save persists a new batch
func (r *GormBatchRepository) Save(ctx context.Context, batch *inventory.Batch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

// FindByID finds a batch by its ID
func (r *GormBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Batch, error) {
	var batch inventory.Batch
	if err := r.db.WithContext(ctx).First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByIDForUpdate loads one batch with SELECT ... FOR UPDATE so a
// single-batch correction queues behind any allocation holding the row
func (r *GormBatchRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*inventory.Batch, error) {
	var batch inventory.Batch
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByItem returns all batches of an item
func (r *GormBatchRepository) FindByItem(ctx context.Context, itemID uuid.UUID) ([]*inventory.Batch, error) {
	var batches []*inventory.Batch
	if err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("received_at ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindByItemForUpdate loads all batches of an item with SELECT ... FOR
// UPDATE. Concurrent allocations against the same item queue up on these
// row locks, so each one sees the quantities left by the previous commit.
func (r *GormBatchRepository) FindByItemForUpdate(ctx context.Context, itemID uuid.UUID) ([]*inventory.Batch, error) {
	var batches []*inventory.Batch
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("item_id = ?", itemID).
		Order("received_at ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindExpiringSoon returns batches with remaining stock expiring before the cutoff
func (r *GormBatchRepository) FindExpiringSoon(ctx context.Context, before time.Time, limit int) ([]*inventory.Batch, error) {
	var batches []*inventory.Batch
	query := r.db.WithContext(ctx).
		Where("quantity > 0 AND expires_on IS NOT NULL AND expires_on < ?", before).
		Order("expires_on ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// Update persists changes to an existing batch
func (r *GormBatchRepository) Update(ctx context.Context, batch *inventory.Batch) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

// Ensure GormBatchRepository implements BatchRepository
var _ inventory.BatchRepository = (*GormBatchRepository)(nil)
