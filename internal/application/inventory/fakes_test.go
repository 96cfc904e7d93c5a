package inventory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/growbro/backend/internal/domain/inventory"
	"github.com/growbro/backend/internal/domain/shared"
)

// fakeItemRepository is an in-memory ItemRepository for service tests
type fakeItemRepository struct {
	mu    sync.Mutex
	items map[uuid.UUID]*inventory.Item
}

func newFakeItemRepository() *fakeItemRepository {
	return &fakeItemRepository{items: make(map[uuid.UUID]*inventory.Item)}
}

func (r *fakeItemRepository) Save(ctx context.Context, item *inventory.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
	return nil
}

func (r *fakeItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return item, nil
}

func (r *fakeItemRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeItemRepository) FindBySKU(ctx context.Context, sku string) (*inventory.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.SKU != nil && *item.SKU == sku {
			return item, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeItemRepository) FindByBarcode(ctx context.Context, barcode string) (*inventory.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.Barcode != nil && *item.Barcode == barcode {
			return item, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeItemRepository) FindAll(ctx context.Context, filter inventory.ItemFilter) ([]*inventory.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*inventory.Item, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeItemRepository) Update(ctx context.Context, item *inventory.Item) error {
	return r.Save(ctx, item)
}

func (r *fakeItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *fakeItemRepository) Count(ctx context.Context, filter inventory.ItemFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.items)), nil
}

// fakeBatchRepository is an in-memory BatchRepository for service tests.
// lockedFinds counts single-batch reads taken through the locking variant.
type fakeBatchRepository struct {
	mu          sync.Mutex
	batches     map[uuid.UUID]*inventory.Batch
	lockedFinds int
}

func newFakeBatchRepository() *fakeBatchRepository {
	return &fakeBatchRepository{batches: make(map[uuid.UUID]*inventory.Batch)}
}

func (r *fakeBatchRepository) Save(ctx context.Context, batch *inventory.Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches[batch.ID] = batch
	return nil
}

func (r *fakeBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	batch, ok := r.batches[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return batch, nil
}

func (r *fakeBatchRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*inventory.Batch, error) {
	r.mu.Lock()
	r.lockedFinds++
	r.mu.Unlock()
	return r.FindByID(ctx, id)
}

func (r *fakeBatchRepository) FindByItem(ctx context.Context, itemID uuid.UUID) ([]*inventory.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*inventory.Batch, 0)
	for _, b := range r.batches {
		if b.ItemID == itemID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBatchRepository) FindByItemForUpdate(ctx context.Context, itemID uuid.UUID) ([]*inventory.Batch, error) {
	return r.FindByItem(ctx, itemID)
}

func (r *fakeBatchRepository) FindExpiringSoon(ctx context.Context, before time.Time, limit int) ([]*inventory.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*inventory.Batch, 0)
	for _, b := range r.batches {
		if b.HasStock() && b.ExpiresOn != nil && b.ExpiresOn.Before(before) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresOn.Before(*out[j].ExpiresOn) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeBatchRepository) Update(ctx context.Context, batch *inventory.Batch) error {
	return r.Save(ctx, batch)
}

// fakeMovementRepository is an in-memory append-only MovementRepository.
// Saving a movement whose external key is already present fails with a
// constraint violation, mirroring the unique index.
type fakeMovementRepository struct {
	mu        sync.Mutex
	movements []*inventory.Movement
}

func newFakeMovementRepository() *fakeMovementRepository {
	return &fakeMovementRepository{}
}

func (r *fakeMovementRepository) Save(ctx context.Context, movement *inventory.Movement) error {
	return r.SaveAll(ctx, []*inventory.Movement{movement})
}

func (r *fakeMovementRepository) SaveAll(ctx context.Context, movements []*inventory.Movement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range movements {
		if m.ExternalKey != nil {
			for _, existing := range r.movements {
				if existing.ExternalKey != nil && *existing.ExternalKey == *m.ExternalKey {
					return inventory.NewConstraintViolationError("idx_movements_external_key", "duplicate external key")
				}
			}
		}
	}
	r.movements = append(r.movements, movements...)
	return nil
}

func (r *fakeMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeMovementRepository) FindByExternalKey(ctx context.Context, key string) (*inventory.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.movements {
		if m.ExternalKey != nil && *m.ExternalKey == key {
			return m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeMovementRepository) FindByGroupID(ctx context.Context, groupID uuid.UUID) ([]*inventory.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*inventory.Movement, 0)
	for _, m := range r.movements {
		if m.GroupID == groupID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovementRepository) FindByItem(ctx context.Context, itemID uuid.UUID) ([]*inventory.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*inventory.Movement, 0)
	for _, m := range r.movements {
		if m.ItemID == itemID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovementRepository) SumDeltaByItem(ctx context.Context, itemID uuid.UUID) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := decimal.Zero
	for _, m := range r.movements {
		if m.ItemID == itemID {
			sum = sum.Add(m.QuantityDelta)
		}
	}
	return sum, nil
}

func (r *fakeMovementRepository) FindAll(ctx context.Context, filter inventory.MovementFilter) ([]*inventory.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*inventory.Movement, 0)
	for _, m := range r.movements {
		if filter.ItemID != nil && m.ItemID != *filter.ItemID {
			continue
		}
		if filter.Type != nil && m.Type != *filter.Type {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeMovementRepository) Count(ctx context.Context, filter inventory.MovementFilter) (int64, error) {
	all, _ := r.FindAll(ctx, filter)
	return int64(len(all)), nil
}

func (r *fakeMovementRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.movements)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
