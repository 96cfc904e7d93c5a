package inventory

import (
	"context"

	"github.com/growbro/backend/internal/domain/inventory"
)

// TransactionalRepositories bundles the repositories that participate in
// one stock transaction
type TransactionalRepositories struct {
	Items     inventory.ItemRepository
	Batches   inventory.BatchRepository
	Movements inventory.MovementRepository
}

// TransactionScope executes a function within a transaction boundary.
// All repository operations inside the function either commit together
// or roll back together.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(ctx context.Context, repos *TransactionalRepositories) error) error
}

// NoOpTransactionScope executes the function without an actual transaction.
// Used in tests with in-memory or mock repositories.
type NoOpTransactionScope struct {
	repos *TransactionalRepositories
}

// NewNoOpTransactionScope creates a no-op transaction scope
func NewNoOpTransactionScope(items inventory.ItemRepository, batches inventory.BatchRepository, movements inventory.MovementRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		repos: &TransactionalRepositories{
			Items:     items,
			Batches:   batches,
			Movements: movements,
		},
	}
}

// Execute runs the function with the configured repositories
func (s *NoOpTransactionScope) Execute(ctx context.Context, fn func(ctx context.Context, repos *TransactionalRepositories) error) error {
	return fn(ctx, s.repos)
}
