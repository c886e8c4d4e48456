package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/cyphera/cyphera-vault/internal/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// serializationFailure is the SQLSTATE Postgres returns when a SERIALIZABLE
// transaction loses a conflict.
const serializationFailure = "40001"

// TransactionFunc is a function that executes within a database transaction
type TransactionFunc func(tx pgx.Tx) error

// TransactionOptions provides additional options for transaction execution
type TransactionOptions struct {
	IsolationLevel pgx.TxIsoLevel
	AccessMode     pgx.TxAccessMode
	DeferrableMode pgx.TxDeferrableMode
}

// WithTransaction executes fn in a read-committed transaction. The
// transaction is committed when fn returns nil and rolled back otherwise.
func WithTransaction(ctx context.Context, pool *pgxpool.Pool, fn TransactionFunc) error {
	return WithTransactionOptions(ctx, pool, TransactionOptions{}, fn)
}

// WithTransactionOptions executes fn within a transaction started with opts.
func WithTransactionOptions(ctx context.Context, pool *pgxpool.Pool, opts TransactionOptions, fn TransactionFunc) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:       opts.IsolationLevel,
		AccessMode:     opts.AccessMode,
		DeferrableMode: opts.DeferrableMode,
	})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		// After a commit, rollback returns ErrTxClosed
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			logger.OrNop().Error("Failed to rollback transaction", zap.Error(rollbackErr))
		}
	}()

	if err := fn(tx); err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// WithSerializableRetry runs fn at SERIALIZABLE isolation, retrying up to
// maxRetries times when Postgres reports a serialization failure.
func WithSerializableRetry(ctx context.Context, pool *pgxpool.Pool, maxRetries int, fn TransactionFunc) error {
	opts := TransactionOptions{IsolationLevel: pgx.Serializable, AccessMode: pgx.ReadWrite}

	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err = WithTransactionOptions(ctx, pool, opts, fn)
		if err == nil {
			return nil
		}
		if !IsSerializationFailure(err) || attempt == maxRetries {
			break
		}
		logger.OrNop().Warn("Transaction failed due to serialization error, retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries),
			zap.Error(err),
		)
	}
	return err
}

// IsSerializationFailure reports whether err carries SQLSTATE 40001.
func IsSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == serializationFailure
}
