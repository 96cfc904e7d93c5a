package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem(t *testing.T) {
	t.Run("creates valid item", func(t *testing.T) {
		item, err := NewItem("CalMag", UnitMilliliter, TrackingBatched)
		require.NoError(t, err)
		assert.Equal(t, "CalMag", item.Name)
		assert.Equal(t, UnitMilliliter, item.Unit)
		assert.Equal(t, TrackingBatched, item.TrackingMode)
		assert.True(t, item.Consumable)
		assert.True(t, item.ReorderMultiple.Equal(decimal.NewFromInt(1)))
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewItem("", UnitGram, TrackingBatched)
		assert.Error(t, err)
	})

	t.Run("rejects unknown unit", func(t *testing.T) {
		_, err := NewItem("CalMag", "gallon", TrackingBatched)
		assert.Error(t, err)
	})

	t.Run("rejects unknown tracking mode", func(t *testing.T) {
		_, err := NewItem("CalMag", UnitGram, "loose")
		assert.Error(t, err)
	})
}

func TestItemThresholds(t *testing.T) {
	t.Run("valid thresholds applied", func(t *testing.T) {
		item, err := NewItem("CalMag", UnitMilliliter, TrackingBatched)
		require.NoError(t, err)

		err = item.SetThresholds(decimal.NewFromInt(500), decimal.NewFromInt(250), 7)
		require.NoError(t, err)
		assert.True(t, item.MinStock.Equal(decimal.NewFromInt(500)))
		assert.Equal(t, 7, item.LeadTimeDays)
	})

	t.Run("rejects negative min stock", func(t *testing.T) {
		item, err := NewItem("CalMag", UnitMilliliter, TrackingBatched)
		require.NoError(t, err)
		assert.Error(t, item.SetThresholds(decimal.NewFromInt(-1), decimal.NewFromInt(1), 0))
	})

	t.Run("rejects zero reorder multiple", func(t *testing.T) {
		item, err := NewItem("CalMag", UnitMilliliter, TrackingBatched)
		require.NoError(t, err)
		assert.Error(t, item.SetThresholds(decimal.NewFromInt(10), decimal.Zero, 0))
	})
}

func TestItemNeedsReorder(t *testing.T) {
	item, err := NewItem("CalMag", UnitMilliliter, TrackingBatched)
	require.NoError(t, err)
	require.NoError(t, item.SetThresholds(decimal.NewFromInt(500), decimal.NewFromInt(250), 7))

	t.Run("below threshold", func(t *testing.T) {
		assert.True(t, item.NeedsReorder(decimal.NewFromInt(499)))
	})

	t.Run("at threshold", func(t *testing.T) {
		assert.False(t, item.NeedsReorder(decimal.NewFromInt(500)))
	})

	t.Run("zero min stock never reorders", func(t *testing.T) {
		noMin, err := NewItem("Perlite", UnitLiter, TrackingSimple)
		require.NoError(t, err)
		assert.False(t, noMin.NeedsReorder(decimal.Zero))
	})
}

func TestItemSuggestedReorderQuantity(t *testing.T) {
	item, err := NewItem("CalMag", UnitMilliliter, TrackingBatched)
	require.NoError(t, err)
	require.NoError(t, item.SetThresholds(decimal.NewFromInt(500), decimal.NewFromInt(250), 7))

	t.Run("rounds deficit up to reorder multiple", func(t *testing.T) {
		// deficit 400 -> two multiples of 250
		qty := item.SuggestedReorderQuantity(decimal.NewFromInt(100))
		assert.True(t, qty.Equal(decimal.NewFromInt(500)), "got %s", qty)
	})

	t.Run("exact multiple is not rounded further", func(t *testing.T) {
		qty := item.SuggestedReorderQuantity(decimal.NewFromInt(250))
		assert.True(t, qty.Equal(decimal.NewFromInt(250)), "got %s", qty)
	})

	t.Run("no deficit means zero", func(t *testing.T) {
		qty := item.SuggestedReorderQuantity(decimal.NewFromInt(600))
		assert.True(t, qty.IsZero())
	})
}
