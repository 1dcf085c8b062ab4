package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"

	"github.com/AltEgora/avito/internal/repo"
)

type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
	SendBatch(context.Context, *pgx.Batch) pgx.BatchResults
}

var (
	_ repo.Store  = (*Store)(nil)
	_ repo.Tx     = (*pgTx)(nil)
	_ repo.Reader = (*Reader)(nil)
)

const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
)

type Store struct {
	pool    *pgxpool.Pool
	backoff func() retry.Backoff
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:    pool,
		backoff: defaultBackoff,
	}
}

func defaultBackoff() retry.Backoff {
	return retry.WithMaxRetries(4, retry.WithJitter(5*time.Millisecond, retry.NewExponential(10*time.Millisecond)))
}

// InTx runs fn in a transaction. A transaction aborted by a deadlock or a
// serialization failure is rolled back and fn is run again from scratch.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, tx repo.Tx) error) error {
	return withRetry(ctx, s.backoff(), func(ctx context.Context) error {
		return s.inTx(ctx, fn)
	})
}

func withRetry(ctx context.Context, b retry.Backoff, attempt func(ctx context.Context) error) error {
	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := attempt(ctx)
		if isRetryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == sqlStateDeadlockDetected || pgErr.Code == sqlStateSerializationFailure
}

func (s *Store) inTx(ctx context.Context, fn func(ctx context.Context, tx repo.Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return dbError("begin tx", err)
	}
	defer func() {
		// #nosec G104 -- rollback after a successful commit is a no-op
		_ = tx.Rollback(context.WithoutCancel(ctx))
	}()

	if err := fn(ctx, &pgTx{db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return dbError("commit tx", err)
	}
	return nil
}

type pgTx struct {
	db DBTX
}

func dbError(action string, err error) error {
	return fmt.Errorf("%w: %s: %w", repo.ErrPersistence, action, err)
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func lockClause(lock repo.LockMode) string {
	switch lock {
	case repo.LockShare:
		return " FOR SHARE"
	case repo.LockUpdate:
		return " FOR UPDATE"
	}
	return ""
}
