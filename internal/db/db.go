package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// openMaxElapsed bounds how long Open keeps retrying a busy database.
const openMaxElapsed = 10 * time.Second

// Pragmas are applied to every pooled connection through the DSN. Write
// transactions start with BEGIN IMMEDIATE so concurrent check-then-write
// sequences serialize on the database write lock.
var dsnParams = []string{
	"_pragma=foreign_keys(1)",
	"_pragma=busy_timeout(5000)",
	"_pragma=journal_mode(WAL)",
	"_pragma=synchronous(NORMAL)",
	"_txlock=immediate",
	"_time_format=sqlite",
}

// DSN builds the connection string for the database file at path.
func DSN(path string) string {
	return "file:" + path + "?" + strings.Join(dsnParams, "&")
}

// Open opens a SQLite database connection and verifies it is reachable.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = openMaxElapsed
	err = backoff.Retry(func() error {
		err := db.PingContext(context.Background())
		if err != nil && !IsBusy(err) {
			return backoff.Permanent(err)
		}
		return err
	}, bo)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

// IsBusy reports whether err is SQLITE_BUSY or SQLITE_LOCKED (including
// extended codes).
func IsBusy(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	primary := se.Code() & 0xff
	return primary == sqlite3.SQLITE_BUSY || primary == sqlite3.SQLITE_LOCKED
}

// IsUniqueViolation reports whether err is a UNIQUE constraint failure.
func IsUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
