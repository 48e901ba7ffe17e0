package storage

import (
	"context"
	"errors"

	"github.com/uptrace/bun"
)

func createTable(ctx context.Context, db bun.IDB, model any) error {
	_, err := db.NewCreateTable().
		Model(model).
		IfNotExists().
		Exec(ctx)
	return err
}

func createIndex(ctx context.Context, db bun.IDB, model any, name string, columns ...string) error {
	q := db.NewCreateIndex().
		Model(model).
		Index(name).
		IfNotExists()
	for _, c := range columns {
		q = q.Column(c)
	}
	_, err := q.Exec(ctx)
	return err
}

func initSchema(ctx context.Context, db *bun.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	steps := []func() error{
		func() error { return createTable(ctx, tx, (*jobModel)(nil)) },
		func() error { return createTable(ctx, tx, (*configModel)(nil)) },
		func() error { return createTable(ctx, tx, (*workerModel)(nil)) },
		func() error {
			return createIndex(ctx, tx, (*jobModel)(nil), "idx_jobs_state_next", "state", "next_run_at")
		},
		func() error {
			return createIndex(ctx, tx, (*jobModel)(nil), "idx_jobs_locked_by", "locked_by")
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return errors.Join(err, tx.Rollback())
		}
	}
	return tx.Commit()
}

// InitSchema creates the jobs, config, and workers tables together with
// the indexes required by Acquire and RecoverAbandoned, inside a single
// transaction. If any step fails, the transaction is rolled back.
//
// InitSchema is idempotent and may be called multiple times; it never
// drops or mutates existing tables beyond creating missing objects.
func InitSchema(ctx context.Context, db *bun.DB) error {
	return initSchema(ctx, db)
}
