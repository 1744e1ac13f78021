// Package database owns the postgres connection and schema management.
package database

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yourorg/poll-service/internal/config"
)

//go:embed schema.sql
var schema string

// Connect opens a pooled connection to postgres, retrying with exponential
// backoff while the database is still coming up.
func Connect(cfg config.DatabaseConfig, logger *zap.Logger) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DBName,
		cfg.SSLMode,
	)

	var db *sqlx.DB

	operation := func() error {
		var err error
		db, err = sqlx.Connect("pgx", dsn)
		if err != nil {
			logger.Warn("Database not ready, retrying", zap.Error(err))
			return err
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 2 * time.Minute

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}

// Migrate applies the embedded schema. Statements are idempotent so this
// is safe to run on every startup.
func Migrate(db *sqlx.DB, logger *zap.Logger) error {
	if _, err := db.Exec(schema); err != nil {
		logger.Error("Failed to apply schema", zap.Error(err))
		return err
	}
	logger.Info("Database schema up to date")
	return nil
}
