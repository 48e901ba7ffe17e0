package main

import (
	"context"
	"fmt"

	"github.com/queuectl/queuectl/internal/config"
	"github.com/queuectl/queuectl/internal/storage"
)

// openStore opens the database at gf.dbPath and seeds default
// configuration. It does not create the schema; callers that require
// an initialized schema should run "init" first.
func openStore(ctx context.Context, gf *globalFlags) (*storage.Store, *config.Store, error) {
	db, err := storage.Open(gf.dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", gf.dbPath, err)
	}
	cfg := config.New(db)
	if err := cfg.Seed(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("seed config: %w", err)
	}
	return db, cfg, nil
}
