package inventory

import (
	"context"

	"go.uber.org/zap"

	"github.com/growbro/backend/internal/domain/inventory"
)

// ReorderService surfaces items that have fallen below their configured
// minimum stock. It only signals; it never places orders. On-hand is
// folded from the movement ledger, never read from a cached counter.
type ReorderService struct {
	items     inventory.ItemRepository
	movements inventory.MovementRepository
	logger    *zap.Logger
}

// NewReorderService creates a new reorder service
func NewReorderService(items inventory.ItemRepository, movements inventory.MovementRepository, logger *zap.Logger) *ReorderService {
	return &ReorderService{items: items, movements: movements, logger: logger}
}

// Candidates returns every item whose on-hand stock is below its minimum,
// with a suggested order quantity rounded up to the item's reorder multiple
func (s *ReorderService) Candidates(ctx context.Context) ([]ReorderCandidate, error) {
	items, err := s.items.FindAll(ctx, inventory.ItemFilter{})
	if err != nil {
		return nil, err
	}

	candidates := make([]ReorderCandidate, 0)
	for _, item := range items {
		if item.MinStock.IsZero() {
			continue
		}
		onHand, err := s.movements.SumDeltaByItem(ctx, item.ID)
		if err != nil {
			s.logger.Warn("reorder check skipped",
				zap.String("item_id", item.ID.String()),
				zap.Error(err))
			continue
		}
		if !item.NeedsReorder(onHand) {
			continue
		}
		candidates = append(candidates, ReorderCandidate{
			ItemID:            item.ID,
			ItemName:          item.Name,
			Unit:              string(item.Unit),
			OnHand:            onHand,
			MinStock:          item.MinStock,
			SuggestedQuantity: item.SuggestedReorderQuantity(onHand),
			LeadTimeDays:      item.LeadTimeDays,
		})
	}
	return candidates, nil
}
