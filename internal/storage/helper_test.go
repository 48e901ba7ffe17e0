package storage_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/queuectl/queuectl/internal/storage"

	_ "modernc.org/sqlite"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	sqlDB, err := sql.Open("sqlite", "file::memory:?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1) // important for sqlite
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	s := storage.NewWithDB(db)
	if err := s.InitSchema(context.Background()); err != nil {
		t.Fatal(err)
	}
	return s
}
