package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBatch(t *testing.T) {
	itemID := uuid.New()
	now := time.Now()

	t.Run("creates valid batch", func(t *testing.T) {
		b, err := NewBatch(itemID, decimal.NewFromInt(10), 150, now, nil)
		require.NoError(t, err)
		assert.Equal(t, itemID, b.ItemID)
		assert.True(t, b.Quantity.Equal(decimal.NewFromInt(10)))
		assert.Equal(t, int64(150), b.CostPerUnitMinor)
		assert.Nil(t, b.ExpiresOn)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := NewBatch(itemID, decimal.Zero, 150, now, nil)
		assert.Error(t, err)
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		_, err := NewBatch(itemID, decimal.NewFromInt(-5), 150, now, nil)
		assert.Error(t, err)
	})

	t.Run("rejects negative cost", func(t *testing.T) {
		_, err := NewBatch(itemID, decimal.NewFromInt(5), -1, now, nil)
		assert.Error(t, err)
	})

	t.Run("rejects nil item", func(t *testing.T) {
		_, err := NewBatch(uuid.Nil, decimal.NewFromInt(5), 100, now, nil)
		assert.Error(t, err)
	})
}

func TestBatchExpiry(t *testing.T) {
	itemID := uuid.New()
	now := time.Now()

	t.Run("nil expiry never expires", func(t *testing.T) {
		b := createTestBatch(itemID, 10, 100, now, nil)
		assert.False(t, b.IsExpired(now.AddDate(10, 0, 0)))
	})

	t.Run("expired strictly before reference time", func(t *testing.T) {
		expiry := now.AddDate(0, 0, 1)
		b := createTestBatch(itemID, 10, 100, now, &expiry)

		assert.False(t, b.IsExpired(now))
		assert.False(t, b.IsExpired(expiry))
		assert.True(t, b.IsExpired(expiry.Add(time.Second)))
	})

	t.Run("availability combines stock and expiry", func(t *testing.T) {
		expiry := now.AddDate(0, 0, -1)
		b := createTestBatch(itemID, 10, 100, now.AddDate(0, 0, -5), &expiry)
		assert.False(t, b.IsAvailable(now))

		fresh := createTestBatch(itemID, 10, 100, now, nil)
		assert.True(t, fresh.IsAvailable(now))

		require.NoError(t, fresh.Deduct(decimal.NewFromInt(10)))
		assert.False(t, fresh.IsAvailable(now))
	})
}

func TestBatchDeduct(t *testing.T) {
	itemID := uuid.New()
	now := time.Now()

	t.Run("deducts partial quantity", func(t *testing.T) {
		b := createTestBatch(itemID, 10, 100, now, nil)
		require.NoError(t, b.Deduct(decimal.NewFromInt(4)))
		assert.True(t, b.Quantity.Equal(decimal.NewFromInt(6)))
	})

	t.Run("rejects over-deduction", func(t *testing.T) {
		b := createTestBatch(itemID, 10, 100, now, nil)
		err := b.Deduct(decimal.NewFromInt(11))
		assert.Error(t, err)
		assert.True(t, b.Quantity.Equal(decimal.NewFromInt(10)))
	})

	t.Run("rejects non-positive deduction", func(t *testing.T) {
		b := createTestBatch(itemID, 10, 100, now, nil)
		assert.Error(t, b.Deduct(decimal.Zero))
		assert.Error(t, b.Deduct(decimal.NewFromInt(-1)))
	})
}

func TestBatchRemainingValue(t *testing.T) {
	itemID := uuid.New()
	now := time.Now()

	t.Run("multiplies quantity by frozen unit cost", func(t *testing.T) {
		b := createTestBatch(itemID, 5, 1099, now, nil)
		assert.Equal(t, int64(5495), b.RemainingValueMinor())
	})

	t.Run("rounds fractional quantities to whole minor units", func(t *testing.T) {
		b := createTestBatch(itemID, 2.5, 101, now, nil)
		// 2.5 * 101 = 252.5, rounds half up
		assert.Equal(t, int64(253), b.RemainingValueMinor())
	})
}
