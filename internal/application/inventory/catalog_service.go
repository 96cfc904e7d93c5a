package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/growbro/backend/internal/domain/inventory"
	"github.com/growbro/backend/internal/domain/shared"
)

// CatalogService manages the item catalog
type CatalogService struct {
	items  inventory.ItemRepository
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(items inventory.ItemRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{items: items, logger: logger}
}

// CreateItem registers a new consumable in the catalog
func (s *CatalogService) CreateItem(ctx context.Context, req CreateItemRequest) (*inventory.Item, error) {
	mode := inventory.TrackingMode(req.TrackingMode)
	if req.TrackingMode == "" {
		mode = inventory.TrackingBatched
	}

	item, err := inventory.NewItem(req.Name, inventory.UnitOfMeasure(req.Unit), mode)
	if err != nil {
		return nil, err
	}
	item.Category = req.Category
	item.Notes = req.Notes
	item.LeadTimeDays = req.LeadTimeDays

	if req.MinStock != "" {
		minStock, err := decimal.NewFromString(req.MinStock)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_ITEM", "min_stock is not a valid number")
		}
		item.MinStock = minStock
	}
	if req.ReorderMultiple != "" {
		multiple, err := decimal.NewFromString(req.ReorderMultiple)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_ITEM", "reorder_multiple is not a valid number")
		}
		item.ReorderMultiple = multiple
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}

	if err := s.ensureIdentifiersFree(ctx, req.SKU, req.Barcode, uuid.Nil); err != nil {
		return nil, err
	}
	item.SKU = req.SKU
	item.Barcode = req.Barcode

	if err := s.items.Save(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("item created",
		zap.String("item_id", item.ID.String()),
		zap.String("name", item.Name))
	return item, nil
}

// GetItem loads a single catalog item
func (s *CatalogService) GetItem(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	return s.items.FindByID(ctx, id)
}

// GetItemByBarcode resolves an item from a scanned barcode
func (s *CatalogService) GetItemByBarcode(ctx context.Context, barcode string) (*inventory.Item, error) {
	return s.items.FindByBarcode(ctx, barcode)
}

// ListItems returns catalog items matching the filter with a total count
func (s *CatalogService) ListItems(ctx context.Context, filter inventory.ItemFilter) ([]*inventory.Item, int64, error) {
	items, err := s.items.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.items.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// UpdateItem applies a partial update to a catalog item
func (s *CatalogService) UpdateItem(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*inventory.Item, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Notes != nil {
		item.Notes = *req.Notes
	}
	if req.MinStock != nil {
		minStock, err := decimal.NewFromString(*req.MinStock)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_ITEM", "min_stock is not a valid number")
		}
		item.MinStock = minStock
	}
	if req.ReorderMultiple != nil {
		multiple, err := decimal.NewFromString(*req.ReorderMultiple)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_ITEM", "reorder_multiple is not a valid number")
		}
		item.ReorderMultiple = multiple
	}
	if req.LeadTimeDays != nil {
		item.LeadTimeDays = *req.LeadTimeDays
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}

	if req.SKU != nil || req.Barcode != nil {
		if err := s.ensureIdentifiersFree(ctx, req.SKU, req.Barcode, item.ID); err != nil {
			return nil, err
		}
		if req.SKU != nil {
			item.SKU = req.SKU
		}
		if req.Barcode != nil {
			item.Barcode = req.Barcode
		}
	}

	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem soft-deletes a catalog item. Its ledger history remains.
func (s *CatalogService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if _, err := s.items.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.items.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("item deleted", zap.String("item_id", id.String()))
	return nil
}

// ensureIdentifiersFree verifies SKU and barcode are not used by another
// live item. The partial unique indexes are the final authority; this
// check exists to return a clean domain error on the common path.
func (s *CatalogService) ensureIdentifiersFree(ctx context.Context, sku, barcode *string, selfID uuid.UUID) error {
	if sku != nil && *sku != "" {
		existing, err := s.items.FindBySKU(ctx, *sku)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return inventory.NewConstraintViolationError("idx_items_sku", "an item with this SKU already exists")
		}
	}
	if barcode != nil && *barcode != "" {
		existing, err := s.items.FindByBarcode(ctx, *barcode)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return inventory.NewConstraintViolationError("idx_items_barcode", "an item with this barcode already exists")
		}
	}
	return nil
}
