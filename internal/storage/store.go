// Package storage is the durable job queue engine: it owns the jobs
// table, lease columns, config key/value table, and worker registry,
// and exposes the atomic primitives (Enqueue, Acquire, Complete, Fail,
// RecoverAbandoned) that make concurrent dispatch across independent
// processes correct.
//
// # Overview
//
// The engine is backed by SQLite (via github.com/uptrace/bun and
// modernc.org/sqlite) in WAL journal mode, so read traffic (List,
// GetCounts) does not block the Acquire transaction.
//
// # Concurrency Model
//
// Acquire performs a single atomic UPDATE ... WHERE id IN (subquery)
// RETURNING statement, selecting the oldest ready job and marking it
// Processing in one write-exclusive transaction. A SQLITE_BUSY error
// from lock contention is treated as "no job available" rather than
// surfaced as an error, matching the queue's at-most-one-winner
// dispatch contract.
//
// # Schema
//
// InitSchema creates the jobs, config, and workers tables along with
// the indexes required for efficient Acquire and RecoverAbandoned
// queries. It is idempotent and safe to call on every process start.
//
// # Limitations
//
// Store does not manage connection pooling beyond SetMaxOpenConns(1),
// required for correct single-writer semantics against a SQLite file.
// Callers are responsible for opening and closing the underlying
// *sql.DB.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "modernc.org/sqlite"
)

// Store implements the durable job queue engine described in the
// package doc comment, backed by a *bun.DB over a SQLite file.
type Store struct {
	db *bun.DB
}

// Open connects to the SQLite database file at path, enabling WAL mode
// and a 5 second busy timeout, and returns a ready-to-use Store. The
// caller must call InitSchema before first use and Close when done.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	sqlDB.SetMaxOpenConns(1)
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	return &Store{db: db}, nil
}

// NewWithDB wraps an already-configured *bun.DB. It is intended for
// tests that need an in-memory database.
func NewWithDB(db *bun.DB) *Store {
	return &Store{db: db}
}

// InitSchema creates the schema required by Store. See the package-level
// InitSchema function.
func (s *Store) InitSchema(ctx context.Context) error {
	return InitSchema(ctx, s.db)
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
