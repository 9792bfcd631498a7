package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	sqlitedb "github.com/erazemk/izgubljeno/internal/db"
)

// Querier is satisfied by both *sql.DB and *sql.Tx, so store functions can
// run standalone or as part of a caller's transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// txBeginMaxElapsed bounds how long WithTx waits for the write lock beyond
// the connection's busy_timeout.
const txBeginMaxElapsed = 5 * time.Second

// WithTx runs fn in a write transaction. The connection DSN makes every
// transaction BEGIN IMMEDIATE, so reads inside fn observe a state no other
// writer can change before commit. A busy database is retried with
// exponential backoff; any error returned by fn rolls the transaction back
// and is returned unchanged.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	var tx *sql.Tx

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = txBeginMaxElapsed
	err := backoff.Retry(func() error {
		var err error
		tx, err = db.BeginTx(ctx, nil)
		if err != nil && !sqlitedb.IsBusy(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(bo, ctx))
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

type rowScanner interface {
	Scan(dest ...any) error
}
