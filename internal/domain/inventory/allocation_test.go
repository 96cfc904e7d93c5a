package inventory

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestBatch(itemID uuid.UUID, quantity float64, costMinor int64, receivedAt time.Time, expiresOn *time.Time) *Batch {
	b, err := NewBatch(itemID, decimal.NewFromFloat(quantity), costMinor, receivedAt, expiresOn)
	if err != nil {
		panic(err)
	}
	return b
}

func expiryIn(base time.Time, days int) *time.Time {
	t := base.AddDate(0, 0, days)
	return &t
}

func TestSortBatchesFEFO(t *testing.T) {
	now := time.Now()
	itemID := uuid.New()

	t.Run("orders by earliest expiry first", func(t *testing.T) {
		a := createTestBatch(itemID, 10, 100, now, expiryIn(now, 2))
		b := createTestBatch(itemID, 10, 100, now, expiryIn(now, 10))
		c := createTestBatch(itemID, 10, 100, now, expiryIn(now, 5))

		batches := []*Batch{b, a, c}
		SortBatchesFEFO(batches)

		assert.Equal(t, a.ID, batches[0].ID)
		assert.Equal(t, c.ID, batches[1].ID)
		assert.Equal(t, b.ID, batches[2].ID)
	})

	t.Run("batches without expiry sort last", func(t *testing.T) {
		noExpiry := createTestBatch(itemID, 10, 100, now.Add(-48*time.Hour), nil)
		withExpiry := createTestBatch(itemID, 10, 100, now, expiryIn(now, 30))

		batches := []*Batch{noExpiry, withExpiry}
		SortBatchesFEFO(batches)

		assert.Equal(t, withExpiry.ID, batches[0].ID)
		assert.Equal(t, noExpiry.ID, batches[1].ID)
	})

	t.Run("equal expiry breaks tie on received time", func(t *testing.T) {
		expiry := expiryIn(now, 7)
		older := createTestBatch(itemID, 10, 100, now.Add(-72*time.Hour), expiry)
		newer := createTestBatch(itemID, 10, 100, now, expiry)

		batches := []*Batch{newer, older}
		SortBatchesFEFO(batches)

		assert.Equal(t, older.ID, batches[0].ID)
		assert.Equal(t, newer.ID, batches[1].ID)
	})

	t.Run("no expiry at all falls back to received time", func(t *testing.T) {
		first := createTestBatch(itemID, 10, 100, now.Add(-24*time.Hour), nil)
		second := createTestBatch(itemID, 10, 100, now, nil)

		batches := []*Batch{second, first}
		SortBatchesFEFO(batches)

		assert.Equal(t, first.ID, batches[0].ID)
		assert.Equal(t, second.ID, batches[1].ID)
	})
}

func TestPlanAllocation(t *testing.T) {
	now := time.Now()
	itemID := uuid.New()

	t.Run("single batch covers request", func(t *testing.T) {
		b := createTestBatch(itemID, 20, 150, now, expiryIn(now, 10))

		plan, err := PlanAllocation(itemID, []*Batch{b}, decimal.NewFromInt(8), now, false)
		require.NoError(t, err)

		require.Len(t, plan.Deductions, 1)
		assert.True(t, plan.Deductions[0].Quantity.Equal(decimal.NewFromInt(8)))
		assert.True(t, plan.Deductions[0].RemainingInBatch.Equal(decimal.NewFromInt(12)))
		assert.False(t, plan.Deductions[0].FullyConsumed)
		assert.Equal(t, 1, plan.BatchesPartial)
		assert.Equal(t, 0, plan.BatchesConsumed)
	})

	t.Run("splits across batches in FEFO order", func(t *testing.T) {
		a := createTestBatch(itemID, 5, 100, now, expiryIn(now, 2))
		b := createTestBatch(itemID, 10, 120, now, expiryIn(now, 9))

		plan, err := PlanAllocation(itemID, []*Batch{b, a}, decimal.NewFromInt(12), now, false)
		require.NoError(t, err)

		require.Len(t, plan.Deductions, 2)
		assert.Equal(t, a.ID, plan.Deductions[0].BatchID)
		assert.True(t, plan.Deductions[0].Quantity.Equal(decimal.NewFromInt(5)))
		assert.True(t, plan.Deductions[0].FullyConsumed)
		assert.Equal(t, b.ID, plan.Deductions[1].BatchID)
		assert.True(t, plan.Deductions[1].Quantity.Equal(decimal.NewFromInt(7)))
		assert.True(t, plan.Deductions[1].RemainingInBatch.Equal(decimal.NewFromInt(3)))
		assert.Equal(t, 1, plan.BatchesConsumed)
		assert.Equal(t, 1, plan.BatchesPartial)
		assert.True(t, plan.TotalQuantity.Equal(decimal.NewFromInt(12)))
	})

	t.Run("line cost uses the batch cost it draws from", func(t *testing.T) {
		a := createTestBatch(itemID, 5, 100, now, expiryIn(now, 2))
		b := createTestBatch(itemID, 10, 120, now, expiryIn(now, 9))

		plan, err := PlanAllocation(itemID, []*Batch{a, b}, decimal.NewFromInt(12), now, false)
		require.NoError(t, err)

		assert.Equal(t, int64(500), plan.Deductions[0].LineCostMinor)
		assert.Equal(t, int64(840), plan.Deductions[1].LineCostMinor)
		assert.Equal(t, int64(1340), plan.TotalCostMinor)
	})

	t.Run("total cost rounds the exact sum once", func(t *testing.T) {
		// Each line alone rounds 0.5 * 999 = 499.5 up to 500; the total
		// must come from the unrounded sum 999, not 500 + 500
		a := createTestBatch(itemID, 0.5, 999, now, expiryIn(now, 2))
		b := createTestBatch(itemID, 0.5, 999, now, expiryIn(now, 9))

		plan, err := PlanAllocation(itemID, []*Batch{a, b}, decimal.NewFromInt(1), now, false)
		require.NoError(t, err)

		require.Len(t, plan.Deductions, 2)
		assert.Equal(t, int64(500), plan.Deductions[0].LineCostMinor)
		assert.Equal(t, int64(500), plan.Deductions[1].LineCostMinor)
		assert.Equal(t, int64(999), plan.TotalCostMinor)
	})

	t.Run("insufficient stock reports shortfall", func(t *testing.T) {
		a := createTestBatch(itemID, 4, 100, now, expiryIn(now, 2))
		b := createTestBatch(itemID, 6, 100, now, expiryIn(now, 5))

		_, err := PlanAllocation(itemID, []*Batch{a, b}, decimal.NewFromInt(12), now, false)
		require.Error(t, err)

		var insufficientErr *InsufficientStockError
		require.True(t, errors.As(err, &insufficientErr))
		assert.True(t, insufficientErr.Requested.Equal(decimal.NewFromInt(12)))
		assert.True(t, insufficientErr.Available.Equal(decimal.NewFromInt(10)))
		assert.True(t, insufficientErr.Shortfall.Equal(decimal.NewFromInt(2)))
	})

	t.Run("expired batches are excluded by default", func(t *testing.T) {
		expired := createTestBatch(itemID, 10, 100, now.Add(-240*time.Hour), expiryIn(now, -1))
		fresh := createTestBatch(itemID, 10, 100, now, expiryIn(now, 5))

		plan, err := PlanAllocation(itemID, []*Batch{expired, fresh}, decimal.NewFromInt(8), now, false)
		require.NoError(t, err)

		require.Len(t, plan.Deductions, 1)
		assert.Equal(t, fresh.ID, plan.Deductions[0].BatchID)
		assert.False(t, plan.UsedExpired)
	})

	t.Run("blocked when only expired stock would cover the request", func(t *testing.T) {
		expired := createTestBatch(itemID, 10, 100, now.Add(-240*time.Hour), expiryIn(now, -1))
		fresh := createTestBatch(itemID, 5, 100, now, expiryIn(now, 5))

		_, err := PlanAllocation(itemID, []*Batch{expired, fresh}, decimal.NewFromInt(8), now, false)
		require.Error(t, err)

		var blockedErr *ExpiredBatchBlockedError
		require.True(t, errors.As(err, &blockedErr))
		assert.True(t, blockedErr.UsableOnHand.Equal(decimal.NewFromInt(5)))
		assert.True(t, blockedErr.ExpiredOnHand.Equal(decimal.NewFromInt(10)))
	})

	t.Run("override draws expired stock after fresh stock", func(t *testing.T) {
		expired := createTestBatch(itemID, 10, 100, now.Add(-240*time.Hour), expiryIn(now, -1))
		fresh := createTestBatch(itemID, 5, 100, now, expiryIn(now, 5))

		plan, err := PlanAllocation(itemID, []*Batch{expired, fresh}, decimal.NewFromInt(8), now, true)
		require.NoError(t, err)

		require.Len(t, plan.Deductions, 2)
		assert.Equal(t, fresh.ID, plan.Deductions[0].BatchID)
		assert.True(t, plan.Deductions[0].Quantity.Equal(decimal.NewFromInt(5)))
		assert.Equal(t, expired.ID, plan.Deductions[1].BatchID)
		assert.True(t, plan.Deductions[1].Quantity.Equal(decimal.NewFromInt(3)))
		assert.True(t, plan.Deductions[1].Expired)
		assert.True(t, plan.UsedExpired)
	})

	t.Run("insufficient even with expired stock and override", func(t *testing.T) {
		expired := createTestBatch(itemID, 3, 100, now.Add(-240*time.Hour), expiryIn(now, -1))
		fresh := createTestBatch(itemID, 5, 100, now, expiryIn(now, 5))

		_, err := PlanAllocation(itemID, []*Batch{expired, fresh}, decimal.NewFromInt(10), now, true)
		require.Error(t, err)

		var insufficientErr *InsufficientStockError
		require.True(t, errors.As(err, &insufficientErr))
		assert.True(t, insufficientErr.Available.Equal(decimal.NewFromInt(8)))
		assert.True(t, insufficientErr.Shortfall.Equal(decimal.NewFromInt(2)))
	})

	t.Run("rejects non-positive quantities", func(t *testing.T) {
		b := createTestBatch(itemID, 10, 100, now, nil)

		_, err := PlanAllocation(itemID, []*Batch{b}, decimal.Zero, now, false)
		var invalidErr *InvalidQuantityError
		require.True(t, errors.As(err, &invalidErr))

		_, err = PlanAllocation(itemID, []*Batch{b}, decimal.NewFromInt(-3), now, false)
		require.True(t, errors.As(err, &invalidErr))
	})

	t.Run("empty batches are skipped", func(t *testing.T) {
		empty := createTestBatch(itemID, 1, 100, now.Add(-24*time.Hour), expiryIn(now, 1))
		require.NoError(t, empty.Deduct(decimal.NewFromInt(1)))
		fresh := createTestBatch(itemID, 10, 100, now, expiryIn(now, 5))

		plan, err := PlanAllocation(itemID, []*Batch{empty, fresh}, decimal.NewFromInt(4), now, false)
		require.NoError(t, err)
		require.Len(t, plan.Deductions, 1)
		assert.Equal(t, fresh.ID, plan.Deductions[0].BatchID)
	})

	t.Run("does not mutate the batches", func(t *testing.T) {
		b := createTestBatch(itemID, 10, 100, now, expiryIn(now, 5))

		_, err := PlanAllocation(itemID, []*Batch{b}, decimal.NewFromInt(6), now, false)
		require.NoError(t, err)
		assert.True(t, b.Quantity.Equal(decimal.NewFromInt(10)))
	})
}
