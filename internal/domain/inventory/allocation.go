package inventory

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchDeduction describes how much one batch contributes to an allocation
type BatchDeduction struct {
	BatchID          uuid.UUID
	LotNumber        string
	Quantity         decimal.Decimal
	CostPerUnitMinor int64
	LineCostMinor    int64
	RemainingInBatch decimal.Decimal
	FullyConsumed    bool
	Expired          bool
}

// AllocationPlan is the result of planning a consumption across batches
type AllocationPlan struct {
	ItemID          uuid.UUID
	Requested       decimal.Decimal
	Deductions      []BatchDeduction
	TotalQuantity   decimal.Decimal
	TotalCostMinor  int64
	BatchesConsumed int
	BatchesPartial  int
	UsedExpired     bool
}

// SortBatchesFEFO orders batches first-expire-first-out: earliest expiry
// first, batches without expiry last. Ties break on received time, then
// on batch ID for a stable total order.
func SortBatchesFEFO(batches []*Batch) {
	sort.Slice(batches, func(i, j int) bool {
		a, b := batches[i], batches[j]
		switch {
		case a.ExpiresOn == nil && b.ExpiresOn == nil:
			// fall through to received time
		case a.ExpiresOn == nil:
			return false
		case b.ExpiresOn == nil:
			return true
		case !a.ExpiresOn.Equal(*b.ExpiresOn):
			return a.ExpiresOn.Before(*b.ExpiresOn)
		}
		if !a.ReceivedAt.Equal(b.ReceivedAt) {
			return a.ReceivedAt.Before(b.ReceivedAt)
		}
		return a.ID.String() < b.ID.String()
	})
}

// PlanAllocation plans a consumption of the requested quantity across the
// given batches of one item. Batches are walked in FEFO order and drained
// greedily. Expired batches are excluded unless allowExpired is set, in
// which case they participate after all non-expired stock is used.
//
// The plan is computed without mutating the batches; callers apply the
// deductions inside a transaction. Returns InsufficientStockError when the
// eligible pool cannot cover the request, or ExpiredBatchBlockedError when
// the request could only be covered by drawing on expired stock without an
// override.
func PlanAllocation(itemID uuid.UUID, batches []*Batch, requested decimal.Decimal, at time.Time, allowExpired bool) (*AllocationPlan, error) {
	if !requested.IsPositive() {
		return nil, NewInvalidQuantityError(requested, "requested quantity must be positive")
	}

	usable := make([]*Batch, 0, len(batches))
	expired := make([]*Batch, 0)
	usableTotal := decimal.Zero
	expiredTotal := decimal.Zero
	for _, b := range batches {
		if !b.HasStock() {
			continue
		}
		if b.IsExpired(at) {
			expired = append(expired, b)
			expiredTotal = expiredTotal.Add(b.Quantity)
			continue
		}
		usable = append(usable, b)
		usableTotal = usableTotal.Add(b.Quantity)
	}

	if requested.GreaterThan(usableTotal) {
		if allowExpired {
			if requested.GreaterThan(usableTotal.Add(expiredTotal)) {
				return nil, NewInsufficientStockError(itemID.String(), requested, usableTotal.Add(expiredTotal))
			}
		} else if expiredTotal.IsPositive() && !requested.GreaterThan(usableTotal.Add(expiredTotal)) {
			// Stock exists but is locked behind expired batches
			return nil, NewExpiredBatchBlockedError(itemID.String(), requested, usableTotal, expiredTotal)
		} else {
			return nil, NewInsufficientStockError(itemID.String(), requested, usableTotal)
		}
	}

	SortBatchesFEFO(usable)
	pool := usable
	if allowExpired {
		SortBatchesFEFO(expired)
		pool = append(pool, expired...)
	}

	plan := &AllocationPlan{
		ItemID:     itemID,
		Requested:  requested,
		Deductions: make([]BatchDeduction, 0, len(pool)),
	}

	remaining := requested
	totalCost := decimal.Zero
	for _, b := range pool {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(remaining, b.Quantity)
		left := b.Quantity.Sub(take)
		isExpired := b.IsExpired(at)
		lineCost := take.Mul(decimal.NewFromInt(b.CostPerUnitMinor))

		plan.Deductions = append(plan.Deductions, BatchDeduction{
			BatchID:          b.ID,
			LotNumber:        b.LotNumber,
			Quantity:         take,
			CostPerUnitMinor: b.CostPerUnitMinor,
			LineCostMinor:    lineCost.Round(0).IntPart(),
			RemainingInBatch: left,
			FullyConsumed:    left.IsZero(),
			Expired:          isExpired,
		})
		plan.TotalQuantity = plan.TotalQuantity.Add(take)
		totalCost = totalCost.Add(lineCost)
		if left.IsZero() {
			plan.BatchesConsumed++
		} else {
			plan.BatchesPartial++
		}
		if isExpired {
			plan.UsedExpired = true
		}
		remaining = remaining.Sub(take)
	}
	// The total is the exact decimal sum rounded once; summing the
	// per-line rounded costs could drift for fractional quantities
	plan.TotalCostMinor = totalCost.Round(0).IntPart()

	return plan, nil
}
