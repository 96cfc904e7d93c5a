package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/growbro/backend/internal/domain/inventory"
	"github.com/growbro/backend/internal/domain/shared"
)

// StockService coordinates stock movements: receipts, consumptions, and
// adjustments. Every operation writes one group of ledger movements and
// the matching batch changes atomically; on failure nothing is written.
type StockService struct {
	scope TransactionScope
	// movements is read outside the operation transaction for idempotent
	// replay and threshold checks; writes go through the scope
	movements inventory.MovementRepository
	eventBus  shared.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewStockService creates a new stock service
func NewStockService(
	scope TransactionScope,
	movements inventory.MovementRepository,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *StockService {
	return &StockService{
		scope:     scope,
		movements: movements,
		eventBus:  eventBus,
		logger:    logger,
		now:       time.Now,
	}
}

// Receive records incoming stock. Batched items get a new batch whose
// unit cost is frozen and never changes with later receipts; items
// tracked without batches get a single batchless receipt movement.
func (s *StockService) Receive(ctx context.Context, req ReceiveStockRequest) (*StockOperationResult, error) {
	quantity, err := parseQuantity(req.Quantity)
	if err != nil {
		return nil, err
	}
	if req.CostPerUnitMinor < 0 {
		return nil, shared.NewDomainError("INVALID_BATCH", "unit cost cannot be negative")
	}

	if replayed, err := s.replayIfSeen(ctx, req.ExternalKey); replayed != nil || err != nil {
		return replayed, err
	}

	receivedAt := s.now()
	if req.ReceivedAt != nil {
		receivedAt = *req.ReceivedAt
	}

	groupID := uuid.New()
	var result *StockOperationResult

	txErr := s.scope.Execute(ctx, func(ctx context.Context, repos *TransactionalRepositories) error {
		item, err := repos.Items.FindByID(ctx, req.ItemID)
		if err != nil {
			return err
		}

		if item.TrackingMode == inventory.TrackingSimple {
			return s.receiveSimple(ctx, repos, item, req, quantity, groupID, &result)
		}

		batch, err := inventory.NewBatch(item.ID, quantity, req.CostPerUnitMinor, receivedAt, req.ExpiresOn)
		if err != nil {
			return err
		}
		batch.LotNumber = req.LotNumber
		batch.SupplierRef = req.SupplierRef
		if err := repos.Batches.Save(ctx, batch); err != nil {
			return err
		}

		movement, err := inventory.NewReceiptMovement(item.ID, batch.ID, quantity, req.CostPerUnitMinor, groupID)
		if err != nil {
			return err
		}
		movement.WithExternalKey(req.ExternalKey).WithRecordedBy(req.RecordedBy)
		if err := repos.Movements.Save(ctx, movement); err != nil {
			return err
		}

		result = &StockOperationResult{
			GroupID:        groupID,
			ItemID:         item.ID,
			Quantity:       quantity,
			TotalCostMinor: quantity.Mul(decimal.NewFromInt(req.CostPerUnitMinor)).Round(0).IntPart(),
			Lines: []BatchLine{{
				BatchID:          batch.ID,
				LotNumber:        batch.LotNumber,
				Quantity:         quantity,
				CostPerUnitMinor: req.CostPerUnitMinor,
				LineCostMinor:    quantity.Mul(decimal.NewFromInt(req.CostPerUnitMinor)).Round(0).IntPart(),
				RemainingInBatch: quantity,
			}},
		}
		return nil
	})
	if txErr != nil {
		if replayed, rerr := s.replayOnDuplicate(ctx, txErr, req.ExternalKey); replayed != nil || rerr != nil {
			return replayed, rerr
		}
		return nil, txErr
	}

	s.publish(ctx, inventory.NewStockReceivedEvent(req.ItemID, result.Lines[0].BatchID, quantity, result.Lines[0].CostPerUnitMinor))
	s.logger.Info("stock received",
		zap.String("item_id", req.ItemID.String()),
		zap.String("quantity", quantity.String()),
		zap.Int64("cost_per_unit_minor", req.CostPerUnitMinor))

	return result, nil
}

// Consume draws stock for a task. Batches are drained first-expire-first-out
// with ties broken by received time; expired batches are skipped unless an
// override with a reason is supplied. The whole consumption commits or rolls
// back as one unit.
func (s *StockService) Consume(ctx context.Context, req ConsumeStockRequest) (*StockOperationResult, error) {
	quantity, err := parseQuantity(req.Quantity)
	if err != nil {
		return nil, err
	}
	if req.AllowExpired && req.OverrideReason == "" {
		return nil, inventory.NewOverrideReasonRequiredError(req.ItemID.String())
	}

	if replayed, err := s.replayIfSeen(ctx, req.ExternalKey); replayed != nil || err != nil {
		return replayed, err
	}

	at := s.now()
	groupID := uuid.New()
	var result *StockOperationResult
	var item *inventory.Item

	txErr := s.scope.Execute(ctx, func(ctx context.Context, repos *TransactionalRepositories) error {
		var err error
		item, err = repos.Items.FindByID(ctx, req.ItemID)
		if err != nil {
			return err
		}

		if item.TrackingMode == inventory.TrackingSimple {
			return s.consumeSimple(ctx, repos, item, req, quantity, groupID, &result)
		}

		batches, err := repos.Batches.FindByItemForUpdate(ctx, item.ID)
		if err != nil {
			return err
		}

		plan, err := inventory.PlanAllocation(item.ID, batches, quantity, at, req.AllowExpired)
		if err != nil {
			return err
		}

		byID := make(map[uuid.UUID]*inventory.Batch, len(batches))
		for _, b := range batches {
			byID[b.ID] = b
		}

		movements := make([]*inventory.Movement, 0, len(plan.Deductions))
		for i, d := range plan.Deductions {
			batch := byID[d.BatchID]
			if err := batch.Deduct(d.Quantity); err != nil {
				return err
			}
			if err := repos.Batches.Update(ctx, batch); err != nil {
				return err
			}

			movement, err := inventory.NewConsumptionMovement(item.ID, d.BatchID, d.Quantity, d.CostPerUnitMinor, groupID)
			if err != nil {
				return err
			}
			movement.WithReason(consumeReason(req)).WithRecordedBy(req.RecordedBy)
			if req.TaskID != nil {
				movement.WithTask(*req.TaskID)
			}
			// The idempotency key rides on the first movement of the group
			if i == 0 {
				movement.WithExternalKey(req.ExternalKey)
			}
			movements = append(movements, movement)
		}
		if err := repos.Movements.SaveAll(ctx, movements); err != nil {
			return err
		}

		result = newStockOperationResult(groupID, plan)
		return nil
	})
	if txErr != nil {
		if replayed, rerr := s.replayOnDuplicate(ctx, txErr, req.ExternalKey); replayed != nil || rerr != nil {
			return replayed, rerr
		}
		return nil, txErr
	}

	s.publish(ctx, inventory.NewStockConsumedEvent(item.ID, groupID, quantity, result.TotalCostMinor, len(result.Lines), req.AllowExpired))
	s.checkThreshold(ctx, item, at)
	s.logger.Info("stock consumed",
		zap.String("item_id", req.ItemID.String()),
		zap.String("quantity", quantity.String()),
		zap.Int("batches_touched", len(result.Lines)))

	return result, nil
}

// Adjust records a manual correction. For batched items a positive delta
// requires a target batch, and a negative delta without one is spread
// across batches in first-expire-first-out order, expired batches
// included, since a correction reflects physical reality rather than a
// usage decision. Items tracked without batches take a single batchless
// adjustment in either direction.
func (s *StockService) Adjust(ctx context.Context, req AdjustStockRequest) (*StockOperationResult, error) {
	delta, err := parseDelta(req.Delta)
	if err != nil {
		return nil, err
	}
	if req.Reason == "" {
		return nil, shared.NewDomainError("INVALID_MOVEMENT", "adjustment reason is required")
	}

	if replayed, err := s.replayIfSeen(ctx, req.ExternalKey); replayed != nil || err != nil {
		return replayed, err
	}

	at := s.now()
	groupID := uuid.New()
	var result *StockOperationResult
	var item *inventory.Item

	txErr := s.scope.Execute(ctx, func(ctx context.Context, repos *TransactionalRepositories) error {
		var err error
		item, err = repos.Items.FindByID(ctx, req.ItemID)
		if err != nil {
			return err
		}

		if item.TrackingMode == inventory.TrackingSimple {
			if req.BatchID != nil {
				return shared.NewDomainError("INVALID_MOVEMENT", "item is not tracked by batch")
			}
			return s.adjustSimple(ctx, repos, item, req, delta, groupID, &result)
		}
		if req.BatchID != nil {
			return s.adjustSingleBatch(ctx, repos, item, req, delta, groupID, &result)
		}
		if delta.IsPositive() {
			return shared.NewDomainError("INVALID_MOVEMENT", "positive adjustments must name the batch to credit")
		}
		return s.adjustAcrossBatches(ctx, repos, item, req, delta.Neg(), at, groupID, &result)
	})
	if txErr != nil {
		if replayed, rerr := s.replayOnDuplicate(ctx, txErr, req.ExternalKey); replayed != nil || rerr != nil {
			return replayed, rerr
		}
		return nil, txErr
	}

	s.publish(ctx, inventory.NewStockAdjustedEvent(item.ID, req.BatchID, delta, req.Reason))
	if delta.IsNegative() {
		s.checkThreshold(ctx, item, at)
	}
	s.logger.Info("stock adjusted",
		zap.String("item_id", req.ItemID.String()),
		zap.String("delta", delta.String()),
		zap.String("reason", req.Reason))

	return result, nil
}

func (s *StockService) adjustSingleBatch(ctx context.Context, repos *TransactionalRepositories, item *inventory.Item, req AdjustStockRequest, delta decimal.Decimal, groupID uuid.UUID, result **StockOperationResult) error {
	// Locked read: a concurrent allocation holding this row must commit
	// before we read the quantity we are about to correct
	batch, err := repos.Batches.FindByIDForUpdate(ctx, *req.BatchID)
	if err != nil {
		return err
	}
	if batch.ItemID != item.ID {
		return shared.NewDomainError("INVALID_MOVEMENT", "batch does not belong to the given item")
	}

	if delta.IsPositive() {
		if err := batch.Add(delta); err != nil {
			return err
		}
	} else {
		if err := batch.Deduct(delta.Neg()); err != nil {
			return err
		}
	}
	if err := repos.Batches.Update(ctx, batch); err != nil {
		return err
	}

	movement, err := inventory.NewAdjustmentMovement(item.ID, req.BatchID, delta, req.Reason, groupID)
	if err != nil {
		return err
	}
	movement.WithExternalKey(req.ExternalKey).WithRecordedBy(req.RecordedBy)
	if err := repos.Movements.Save(ctx, movement); err != nil {
		return err
	}

	*result = &StockOperationResult{
		GroupID:  groupID,
		ItemID:   item.ID,
		Quantity: delta,
		Lines: []BatchLine{{
			BatchID:          batch.ID,
			LotNumber:        batch.LotNumber,
			Quantity:         delta,
			CostPerUnitMinor: batch.CostPerUnitMinor,
			RemainingInBatch: batch.Quantity,
		}},
	}
	return nil
}

func (s *StockService) adjustAcrossBatches(ctx context.Context, repos *TransactionalRepositories, item *inventory.Item, req AdjustStockRequest, toRemove decimal.Decimal, at time.Time, groupID uuid.UUID, result **StockOperationResult) error {
	batches, err := repos.Batches.FindByItemForUpdate(ctx, item.ID)
	if err != nil {
		return err
	}

	plan, err := inventory.PlanAllocation(item.ID, batches, toRemove, at, true)
	if err != nil {
		return err
	}

	byID := make(map[uuid.UUID]*inventory.Batch, len(batches))
	for _, b := range batches {
		byID[b.ID] = b
	}

	movements := make([]*inventory.Movement, 0, len(plan.Deductions))
	for i, d := range plan.Deductions {
		batch := byID[d.BatchID]
		if err := batch.Deduct(d.Quantity); err != nil {
			return err
		}
		if err := repos.Batches.Update(ctx, batch); err != nil {
			return err
		}

		batchID := d.BatchID
		movement, err := inventory.NewAdjustmentMovement(item.ID, &batchID, d.Quantity.Neg(), req.Reason, groupID)
		if err != nil {
			return err
		}
		movement.WithRecordedBy(req.RecordedBy)
		if i == 0 {
			movement.WithExternalKey(req.ExternalKey)
		}
		movements = append(movements, movement)
	}
	if err := repos.Movements.SaveAll(ctx, movements); err != nil {
		return err
	}

	res := newStockOperationResult(groupID, plan)
	res.Quantity = res.Quantity.Neg()
	*result = res
	return nil
}

// receiveSimple records a receipt for an item tracked without batches:
// one batchless movement, no cost snapshot, no batch row.
func (s *StockService) receiveSimple(ctx context.Context, repos *TransactionalRepositories, item *inventory.Item, req ReceiveStockRequest, quantity decimal.Decimal, groupID uuid.UUID, result **StockOperationResult) error {
	movement, err := inventory.NewSimpleReceiptMovement(item.ID, quantity, groupID)
	if err != nil {
		return err
	}
	movement.WithExternalKey(req.ExternalKey).WithRecordedBy(req.RecordedBy)
	if err := repos.Movements.Save(ctx, movement); err != nil {
		return err
	}

	*result = &StockOperationResult{
		GroupID:  groupID,
		ItemID:   item.ID,
		Quantity: quantity,
		Lines:    []BatchLine{{Quantity: quantity}},
	}
	return nil
}

// consumeSimple draws stock from an item tracked without batches. On-hand
// is folded from the ledger under the item row lock; there is no batch
// selection and no cost snapshot.
func (s *StockService) consumeSimple(ctx context.Context, repos *TransactionalRepositories, item *inventory.Item, req ConsumeStockRequest, quantity decimal.Decimal, groupID uuid.UUID, result **StockOperationResult) error {
	if _, err := repos.Items.FindByIDForUpdate(ctx, item.ID); err != nil {
		return err
	}
	onHand, err := repos.Movements.SumDeltaByItem(ctx, item.ID)
	if err != nil {
		return err
	}
	if quantity.GreaterThan(onHand) {
		return inventory.NewInsufficientStockError(item.ID.String(), quantity, onHand)
	}

	movement, err := inventory.NewSimpleConsumptionMovement(item.ID, quantity, groupID)
	if err != nil {
		return err
	}
	movement.WithExternalKey(req.ExternalKey).WithReason(consumeReason(req)).WithRecordedBy(req.RecordedBy)
	if req.TaskID != nil {
		movement.WithTask(*req.TaskID)
	}
	if err := repos.Movements.Save(ctx, movement); err != nil {
		return err
	}

	*result = &StockOperationResult{
		GroupID:  groupID,
		ItemID:   item.ID,
		Quantity: quantity,
		Lines:    []BatchLine{{Quantity: quantity}},
	}
	return nil
}

// adjustSimple corrects the single quantity of an item tracked without
// batches. Either direction is allowed, but the result cannot go negative.
func (s *StockService) adjustSimple(ctx context.Context, repos *TransactionalRepositories, item *inventory.Item, req AdjustStockRequest, delta decimal.Decimal, groupID uuid.UUID, result **StockOperationResult) error {
	if _, err := repos.Items.FindByIDForUpdate(ctx, item.ID); err != nil {
		return err
	}
	onHand, err := repos.Movements.SumDeltaByItem(ctx, item.ID)
	if err != nil {
		return err
	}
	if onHand.Add(delta).IsNegative() {
		return inventory.NewInsufficientStockError(item.ID.String(), delta.Neg(), onHand)
	}

	movement, err := inventory.NewAdjustmentMovement(item.ID, nil, delta, req.Reason, groupID)
	if err != nil {
		return err
	}
	movement.WithExternalKey(req.ExternalKey).WithRecordedBy(req.RecordedBy)
	if err := repos.Movements.Save(ctx, movement); err != nil {
		return err
	}

	*result = &StockOperationResult{
		GroupID:  groupID,
		ItemID:   item.ID,
		Quantity: delta,
		Lines:    []BatchLine{{Quantity: delta}},
	}
	return nil
}

// replayIfSeen returns the original result for an external key that has
// already been recorded, so retries observe success instead of a
// duplicate error
func (s *StockService) replayIfSeen(ctx context.Context, externalKey string) (*StockOperationResult, error) {
	if externalKey == "" {
		return nil, nil
	}
	existing, err := s.movements.FindByExternalKey(ctx, externalKey)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return s.replayGroup(ctx, existing.GroupID)
}

// replayOnDuplicate handles the race where two requests with the same key
// hit the unique index concurrently: the loser re-reads the winner's group
func (s *StockService) replayOnDuplicate(ctx context.Context, txErr error, externalKey string) (*StockOperationResult, error) {
	var constraintErr *inventory.ConstraintViolationError
	if externalKey == "" || !errors.As(txErr, &constraintErr) {
		return nil, nil
	}
	existing, err := s.movements.FindByExternalKey(ctx, externalKey)
	if err != nil {
		return nil, txErr
	}
	s.logger.Debug("replaying concurrent duplicate", zap.String("external_key", externalKey))
	return s.replayGroup(ctx, existing.GroupID)
}

// replayGroup rebuilds an operation result from the ledger movements of a
// previously committed group
func (s *StockService) replayGroup(ctx context.Context, groupID uuid.UUID) (*StockOperationResult, error) {
	movements, err := s.movements.FindByGroupID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if len(movements) == 0 {
		return nil, shared.ErrNotFound
	}

	result := &StockOperationResult{
		GroupID:  groupID,
		ItemID:   movements[0].ItemID,
		Replayed: true,
	}
	totalCost := decimal.Zero
	for _, m := range movements {
		qty := m.QuantityDelta.Abs()
		line := BatchLine{Quantity: qty}
		if m.BatchID != nil {
			line.BatchID = *m.BatchID
		}
		if m.CostPerUnitMinor != nil {
			cost := qty.Mul(decimal.NewFromInt(*m.CostPerUnitMinor))
			line.CostPerUnitMinor = *m.CostPerUnitMinor
			line.LineCostMinor = cost.Round(0).IntPart()
			totalCost = totalCost.Add(cost)
		}
		result.Lines = append(result.Lines, line)
		if m.Type == inventory.MovementAdjustment {
			result.Quantity = result.Quantity.Add(m.QuantityDelta)
		} else {
			result.Quantity = result.Quantity.Add(qty)
		}
	}
	result.TotalCostMinor = totalCost.Round(0).IntPart()
	return result, nil
}

// checkThreshold publishes a below-threshold event when on-hand stock has
// fallen under the item's minimum
func (s *StockService) checkThreshold(ctx context.Context, item *inventory.Item, at time.Time) {
	if item.MinStock.IsZero() {
		return
	}
	onHand, err := s.movements.SumDeltaByItem(ctx, item.ID)
	if err != nil {
		s.logger.Warn("threshold check skipped", zap.Error(err))
		return
	}
	if item.NeedsReorder(onHand) {
		s.publish(ctx, inventory.NewStockBelowThresholdEvent(item, onHand))
	}
}

func (s *StockService) publish(ctx context.Context, event shared.DomainEvent) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed",
			zap.String("event_type", event.EventType()),
			zap.Error(err))
	}
}

func consumeReason(req ConsumeStockRequest) string {
	if req.AllowExpired && req.OverrideReason != "" {
		if req.Reason != "" {
			return req.Reason + " (expired override: " + req.OverrideReason + ")"
		}
		return "expired override: " + req.OverrideReason
	}
	return req.Reason
}

func parseQuantity(raw string) (decimal.Decimal, error) {
	qty, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, inventory.NewInvalidQuantityError(decimal.Zero, "quantity is not a valid number")
	}
	if !qty.IsPositive() {
		return decimal.Zero, inventory.NewInvalidQuantityError(qty, "quantity must be positive")
	}
	return qty, nil
}

func parseDelta(raw string) (decimal.Decimal, error) {
	delta, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, inventory.NewInvalidQuantityError(decimal.Zero, "delta is not a valid number")
	}
	if delta.IsZero() {
		return decimal.Zero, inventory.NewInvalidQuantityError(delta, "delta cannot be zero")
	}
	return delta, nil
}
