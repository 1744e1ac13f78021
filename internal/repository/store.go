package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Store owns the database handle and runs transactional units of work.
// Every multi-statement mutation in the service layer goes through
// WithinTx so a failure leaves no partially-applied aggregate.
type Store struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewStore creates a new store
func NewStore(db *sqlx.DB, logger *zap.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger,
	}
}

// WithinTx runs fn inside a transaction. The transaction is rolled back
// unless fn returns nil and the commit succeeds.
func (s *Store) WithinTx(ctx context.Context, fn func(q sqlx.ExtContext) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.Error("Failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback() // Rollback if we don't commit

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}
