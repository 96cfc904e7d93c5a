package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/growbro/backend/internal/domain/inventory"
)

func TestReorderCandidates(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*ReorderService, *fakeItemRepository, *fakeMovementRepository) {
		t.Helper()
		items := newFakeItemRepository()
		movements := newFakeMovementRepository()
		return NewReorderService(items, movements, zap.NewNop()), items, movements
	}

	seedItem := func(t *testing.T, items *fakeItemRepository, name string, minStock, multiple int64, leadDays int) *inventory.Item {
		t.Helper()
		item, err := inventory.NewItem(name, inventory.UnitMilliliter, inventory.TrackingBatched)
		require.NoError(t, err)
		require.NoError(t, item.SetThresholds(decimal.NewFromInt(minStock), decimal.NewFromInt(multiple), leadDays))
		require.NoError(t, items.Save(ctx, item))
		return item
	}

	seedStock := func(t *testing.T, movements *fakeMovementRepository, item *inventory.Item, qty int64) {
		t.Helper()
		batch, err := inventory.NewBatch(item.ID, decimal.NewFromInt(qty), 100, time.Now(), nil)
		require.NoError(t, err)
		movement, err := inventory.NewReceiptMovement(item.ID, batch.ID, decimal.NewFromInt(qty), 100, uuid.New())
		require.NoError(t, err)
		require.NoError(t, movements.Save(ctx, movement))
	}

	t.Run("reports items below their minimum", func(t *testing.T) {
		service, items, movements := setup(t)
		low := seedItem(t, items, "CalMag", 500, 250, 7)
		seedStock(t, movements, low, 100)
		ok := seedItem(t, items, "pH Down", 100, 50, 3)
		seedStock(t, movements, ok, 300)

		candidates, err := service.Candidates(ctx)
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, low.ID, candidates[0].ItemID)
		assert.True(t, candidates[0].OnHand.Equal(decimal.NewFromInt(100)))
		assert.True(t, candidates[0].SuggestedQuantity.Equal(decimal.NewFromInt(500)))
		assert.Equal(t, 7, candidates[0].LeadTimeDays)
	})

	t.Run("item at exactly the minimum is not a candidate", func(t *testing.T) {
		service, items, movements := setup(t)
		item := seedItem(t, items, "CalMag", 500, 250, 7)
		seedStock(t, movements, item, 500)

		candidates, err := service.Candidates(ctx)
		require.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("items without a minimum are ignored", func(t *testing.T) {
		service, items, _ := setup(t)
		item, err := inventory.NewItem("Perlite", inventory.UnitLiter, inventory.TrackingSimple)
		require.NoError(t, err)
		require.NoError(t, items.Save(ctx, item))

		candidates, err := service.Candidates(ctx)
		require.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("item with no movements counts as zero on hand", func(t *testing.T) {
		service, items, _ := setup(t)
		item := seedItem(t, items, "CalMag", 500, 250, 7)

		candidates, err := service.Candidates(ctx)
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.True(t, candidates[0].OnHand.IsZero())
		assert.Equal(t, item.ID, candidates[0].ItemID)
	})
}
