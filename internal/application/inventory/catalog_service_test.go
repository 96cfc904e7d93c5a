package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/growbro/backend/internal/domain/inventory"
	"github.com/growbro/backend/internal/domain/shared"
)

func strPtr(s string) *string { return &s }

func TestCatalogCreateItem(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*CatalogService, *fakeItemRepository) {
		t.Helper()
		items := newFakeItemRepository()
		return NewCatalogService(items, zap.NewNop()), items
	}

	t.Run("creates item with defaults", func(t *testing.T) {
		service, _ := setup(t)

		item, err := service.CreateItem(ctx, CreateItemRequest{
			Name: "CalMag",
			Unit: "ml",
		})
		require.NoError(t, err)
		assert.Equal(t, inventory.TrackingBatched, item.TrackingMode)
		assert.True(t, item.Consumable)
	})

	t.Run("parses thresholds", func(t *testing.T) {
		service, _ := setup(t)

		item, err := service.CreateItem(ctx, CreateItemRequest{
			Name:            "CalMag",
			Unit:            "ml",
			MinStock:        "500",
			ReorderMultiple: "250",
			LeadTimeDays:    7,
		})
		require.NoError(t, err)
		assert.Equal(t, "500", item.MinStock.String())
		assert.Equal(t, 7, item.LeadTimeDays)
	})

	t.Run("rejects duplicate SKU among live items", func(t *testing.T) {
		service, _ := setup(t)

		_, err := service.CreateItem(ctx, CreateItemRequest{Name: "A", Unit: "ml", SKU: strPtr("SKU-1")})
		require.NoError(t, err)

		_, err = service.CreateItem(ctx, CreateItemRequest{Name: "B", Unit: "ml", SKU: strPtr("SKU-1")})
		var constraintErr *inventory.ConstraintViolationError
		require.True(t, errors.As(err, &constraintErr))
	})

	t.Run("SKU becomes reusable after delete", func(t *testing.T) {
		service, _ := setup(t)

		first, err := service.CreateItem(ctx, CreateItemRequest{Name: "A", Unit: "ml", SKU: strPtr("SKU-1")})
		require.NoError(t, err)
		require.NoError(t, service.DeleteItem(ctx, first.ID))

		_, err = service.CreateItem(ctx, CreateItemRequest{Name: "B", Unit: "ml", SKU: strPtr("SKU-1")})
		assert.NoError(t, err)
	})

	t.Run("rejects bad unit", func(t *testing.T) {
		service, _ := setup(t)
		_, err := service.CreateItem(ctx, CreateItemRequest{Name: "A", Unit: "gallon"})
		assert.Error(t, err)
	})
}

func TestCatalogUpdateItem(t *testing.T) {
	ctx := context.Background()
	items := newFakeItemRepository()
	service := NewCatalogService(items, zap.NewNop())

	item, err := service.CreateItem(ctx, CreateItemRequest{Name: "CalMag", Unit: "ml"})
	require.NoError(t, err)

	t.Run("applies partial updates", func(t *testing.T) {
		updated, err := service.UpdateItem(ctx, item.ID, UpdateItemRequest{
			Name:     strPtr("CalMag Plus"),
			MinStock: strPtr("750"),
		})
		require.NoError(t, err)
		assert.Equal(t, "CalMag Plus", updated.Name)
		assert.Equal(t, "750", updated.MinStock.String())
	})

	t.Run("keeping own SKU is not a conflict", func(t *testing.T) {
		_, err := service.UpdateItem(ctx, item.ID, UpdateItemRequest{SKU: strPtr("SKU-9")})
		require.NoError(t, err)
		_, err = service.UpdateItem(ctx, item.ID, UpdateItemRequest{SKU: strPtr("SKU-9")})
		assert.NoError(t, err)
	})

	t.Run("unknown item returns not found", func(t *testing.T) {
		_, err := service.UpdateItem(ctx, uuid.New(), UpdateItemRequest{})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCatalogGetByBarcode(t *testing.T) {
	ctx := context.Background()
	items := newFakeItemRepository()
	service := NewCatalogService(items, zap.NewNop())

	created, err := service.CreateItem(ctx, CreateItemRequest{Name: "CalMag", Unit: "ml", Barcode: strPtr("4006381333931")})
	require.NoError(t, err)

	found, err := service.GetItemByBarcode(ctx, "4006381333931")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = service.GetItemByBarcode(ctx, "0000000000000")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
