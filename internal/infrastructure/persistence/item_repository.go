package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/growbro/backend/internal/domain/inventory"
	"github.com/growbro/backend/internal/domain/shared"
)

// GormItemRepository implements ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// Save persists a new item
func (r *GormItemRepository) Save(ctx context.Context, item *inventory.Item) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return translateConstraintError(err)
	}
	return nil
}

// FindByID finds an item by its ID
func (r *GormItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	var item inventory.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByIDForUpdate loads an item with SELECT ... FOR UPDATE. Stock
// operations on items tracked without batches serialize on this row lock.
func (r *GormItemRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	var item inventory.Item
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindBySKU finds a live item by SKU
func (r *GormItemRepository) FindBySKU(ctx context.Context, sku string) (*inventory.Item, error) {
	var item inventory.Item
	if err := r.db.WithContext(ctx).First(&item, "sku = ?", sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByBarcode finds a live item by barcode
func (r *GormItemRepository) FindByBarcode(ctx context.Context, barcode string) (*inventory.Item, error) {
	var item inventory.Item
	if err := r.db.WithContext(ctx).First(&item, "barcode = ?", barcode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindAll returns items matching the filter
func (r *GormItemRepository) FindAll(ctx context.Context, filter inventory.ItemFilter) ([]*inventory.Item, error) {
	var items []*inventory.Item
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.Item{}), filter)
	query = query.Order("name ASC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Update persists changes to an existing item
func (r *GormItemRepository) Update(ctx context.Context, item *inventory.Item) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return translateConstraintError(err)
	}
	return nil
}

// Delete soft-deletes an item; its ledger history remains intact
func (r *GormItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.Item{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count returns the number of items matching the filter
func (r *GormItemRepository) Count(ctx context.Context, filter inventory.ItemFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.Item{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormItemRepository) applyFilter(query *gorm.DB, filter inventory.ItemFilter) *gorm.DB {
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Consumable != nil {
		query = query.Where("consumable = ?", *filter.Consumable)
	}
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}

// Ensure GormItemRepository implements ItemRepository
var _ inventory.ItemRepository = (*GormItemRepository)(nil)
