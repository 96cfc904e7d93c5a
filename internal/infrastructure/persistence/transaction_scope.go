package persistence

import (
	"context"

	"gorm.io/gorm"

	appinv "github.com/growbro/backend/internal/application/inventory"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Every stock operation runs inside Execute so the batch updates and
// ledger appends of one operation commit or roll back together.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(ctx context.Context, repos *appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &appinv.TransactionalRepositories{
			Items:     NewGormItemRepository(tx),
			Batches:   NewGormBatchRepository(tx),
			Movements: NewGormMovementRepository(tx),
		}
		return fn(ctx, repos)
	})
}

// Ensure GormTransactionScope implements TransactionScope
var _ appinv.TransactionScope = (*GormTransactionScope)(nil)
