package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"

	"github.com/queuectl/queuectl/internal/storage"
)

func cmdInit(gf *globalFlags, args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	db, err := storage.Open(gf.dbPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", gf.dbPath, err)
	}
	defer db.Close()

	if err := db.InitSchema(ctx); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}

	fmt.Printf("✓ initialized database at %s\n", gf.dbPath)
	return nil
}
