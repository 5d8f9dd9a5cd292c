package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"github.com/fkhayef/movienight/internal/metrics"
	"github.com/fkhayef/movienight/pkg/apperror"
)

// ErrRetriesExhausted is returned when a transaction kept conflicting with
// concurrent writers.
var ErrRetriesExhausted = apperror.Transient("the group is busy, please try again")

// SQLSTATE codes that mean the whole transaction can be replayed.
const (
	codeSerializationFailure pq.ErrorCode = "40001"
	codeDeadlockDetected     pq.ErrorCode = "40P01"
)

// retryBackoff is the base delay between attempts; it doubles each retry.
var retryBackoff = 20 * time.Millisecond

// IsRetryable reports whether err is a serialization failure or deadlock
func IsRetryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == codeSerializationFailure || pqErr.Code == codeDeadlockDetected
}

// WithTx runs fn inside a transaction. fn must be safe to replay; it is run
// again from the start after a serialization failure or deadlock, up to
// maxRetries extra times.
func WithTx(ctx context.Context, db *sql.DB, maxRetries int, fn func(tx *sql.Tx) error) error {
	return retry(ctx, maxRetries, func() error {
		return runOnce(ctx, db, fn)
	})
}

// retry calls attempt until it succeeds, fails with a non-retryable error or
// runs out of retries. The delay between attempts doubles each time.
func retry(ctx context.Context, maxRetries int, attempt func() error) error {
	var err error
	for n := 0; n <= maxRetries; n++ {
		if n > 0 {
			metrics.TxRetries.Inc()
			slog.Debug("Retrying transaction", "attempt", n, "error", err)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryBackoff << (n - 1)):
			}
		}

		err = attempt()
		if err == nil || !IsRetryable(err) {
			return err
		}
	}
	return apperror.Wrap(ErrRetriesExhausted, err)
}

func runOnce(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
