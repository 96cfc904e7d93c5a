package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/growbro/backend/internal/domain/inventory"
)

// ProjectionService derives stock positions by folding the movement
// ledger. Batch rows contribute only descriptive facts (frozen cost,
// expiry, lot); quantities always come from the ledger, so every
// position is recomputable from movements alone.
type ProjectionService struct {
	items     inventory.ItemRepository
	batches   inventory.BatchRepository
	movements inventory.MovementRepository
	now       func() time.Time
}

// NewProjectionService creates a new projection service
func NewProjectionService(items inventory.ItemRepository, batches inventory.BatchRepository, movements inventory.MovementRepository) *ProjectionService {
	return &ProjectionService{
		items:     items,
		batches:   batches,
		movements: movements,
		now:       time.Now,
	}
}

// StockLevel returns the derived stock position of one item
func (s *ProjectionService) StockLevel(ctx context.Context, itemID uuid.UUID) (*StockLevel, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	movements, err := s.movements.FindByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	batches, err := s.batches.FindByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return s.buildLevel(item, batches, movements), nil
}

// StockBreakdown returns the per-batch composition of one item's stock,
// ordered the same way allocations will drain it
func (s *ProjectionService) StockBreakdown(ctx context.Context, itemID uuid.UUID) ([]BatchStatus, error) {
	if _, err := s.items.FindByID(ctx, itemID); err != nil {
		return nil, err
	}
	movements, err := s.movements.FindByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	batches, err := s.batches.FindByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	remaining, _ := foldLedger(movements)
	at := s.now()
	live := make([]*inventory.Batch, 0, len(batches))
	for _, b := range batches {
		if remaining[b.ID].IsPositive() {
			live = append(live, b)
		}
	}
	inventory.SortBatchesFEFO(live)

	statuses := make([]BatchStatus, 0, len(live))
	for _, b := range live {
		rem := remaining[b.ID]
		statuses = append(statuses, BatchStatus{
			BatchID:          b.ID,
			LotNumber:        b.LotNumber,
			Remaining:        rem,
			CostPerUnitMinor: b.CostPerUnitMinor,
			ValueMinor:       rem.Mul(decimal.NewFromInt(b.CostPerUnitMinor)).Round(0).IntPart(),
			ReceivedAt:       b.ReceivedAt,
			ExpiresOn:        b.ExpiresOn,
			Expired:          b.IsExpired(at),
		})
	}
	return statuses, nil
}

// Movements returns ledger entries matching the filter, newest first
func (s *ProjectionService) Movements(ctx context.Context, filter inventory.MovementFilter) ([]*inventory.Movement, int64, error) {
	movements, err := s.movements.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.movements.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return movements, total, nil
}

// ExpiringBatches returns batches with stock that expire before the cutoff
func (s *ProjectionService) ExpiringBatches(ctx context.Context, within time.Duration, limit int) ([]*inventory.Batch, error) {
	return s.batches.FindExpiringSoon(ctx, s.now().Add(within), limit)
}

// foldLedger folds movements into the remaining quantity per batch plus
// the net quantity of batchless movements
func foldLedger(movements []*inventory.Movement) (map[uuid.UUID]decimal.Decimal, decimal.Decimal) {
	remaining := make(map[uuid.UUID]decimal.Decimal)
	unbatched := decimal.Zero
	for _, m := range movements {
		if m.BatchID != nil {
			remaining[*m.BatchID] = remaining[*m.BatchID].Add(m.QuantityDelta)
			continue
		}
		unbatched = unbatched.Add(m.QuantityDelta)
	}
	return remaining, unbatched
}

// buildLevel computes the derived position of an item by folding its
// ledger. Valuation sums each batch remainder times its frozen unit cost;
// batchless stock carries no cost and counts as usable, since expiry is
// a batch fact. Integer rounding happens only here at the reporting
// boundary.
func (s *ProjectionService) buildLevel(item *inventory.Item, batches []*inventory.Batch, movements []*inventory.Movement) *StockLevel {
	remaining, unbatched := foldLedger(movements)

	at := s.now()
	onHand := unbatched
	usable := unbatched
	expired := decimal.Zero
	valuation := decimal.Zero
	batchCount := 0

	for _, b := range batches {
		rem := remaining[b.ID]
		if !rem.IsPositive() {
			continue
		}
		batchCount++
		onHand = onHand.Add(rem)
		valuation = valuation.Add(rem.Mul(decimal.NewFromInt(b.CostPerUnitMinor)))
		if b.IsExpired(at) {
			expired = expired.Add(rem)
		} else {
			usable = usable.Add(rem)
		}
	}

	return &StockLevel{
		ItemID:         item.ID,
		ItemName:       item.Name,
		Unit:           string(item.Unit),
		OnHand:         onHand,
		UsableOnHand:   usable,
		ExpiredOnHand:  expired,
		ValuationMinor: valuation.Round(0).IntPart(),
		BatchCount:     batchCount,
		MinStock:       item.MinStock,
		BelowThreshold: item.NeedsReorder(onHand),
	}
}
