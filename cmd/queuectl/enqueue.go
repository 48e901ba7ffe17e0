package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/queuectl/queuectl/internal/config"
	"github.com/queuectl/queuectl/internal/storage"
)

type enqueueInput struct {
	ID         string  `json:"id"`
	Command    string  `json:"command"`
	MaxRetries *int    `json:"max_retries"`
	NextRunAt  *string `json:"next_run_at"`
}

func cmdEnqueue(gf *globalFlags, args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("enqueue", flag.ContinueOnError)
	file := fs.String("f", "", "read the job JSON from this file instead of an argument")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var raw []byte
	var err error
	if *file != "" {
		raw, err = os.ReadFile(*file)
		if err != nil {
			return fmt.Errorf("read %s: %w", *file, err)
		}
	} else {
		rest := fs.Args()
		if len(rest) != 1 {
			return fmt.Errorf("usage: enqueue <json> | enqueue -f <file>")
		}
		raw = []byte(rest[0])
	}

	var in enqueueInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return fmt.Errorf("invalid job JSON: %w", err)
	}
	if in.ID == "" {
		return fmt.Errorf("\"id\" is required")
	}
	if in.Command == "" {
		return fmt.Errorf("\"command\" is required")
	}
	if in.MaxRetries != nil && *in.MaxRetries < 0 {
		return fmt.Errorf("\"max_retries\" must be >= 0")
	}

	ctx := context.Background()
	db, cfg, err := openStore(ctx, gf)
	if err != nil {
		return err
	}
	defer db.Close()

	maxRetries, err := resolveMaxRetries(ctx, cfg, in.MaxRetries)
	if err != nil {
		return err
	}

	nextRunAt, err := resolveNextRunAt(in.NextRunAt)
	if err != nil {
		return err
	}

	req := &storage.EnqueueRequest{
		ID:         in.ID,
		Command:    in.Command,
		MaxRetries: maxRetries,
		NextRunAt:  nextRunAt,
	}

	inserted, err := db.Enqueue(ctx, req)
	if err != nil {
		return fmt.Errorf("enqueue: %w", err)
	}
	if !inserted {
		return fmt.Errorf("job %q already exists", in.ID)
	}

	fmt.Printf("✓ enqueued job %s\n", in.ID)
	return nil
}

func resolveMaxRetries(ctx context.Context, cfg *config.Store, provided *int) (int, error) {
	if provided != nil {
		return *provided, nil
	}
	return cfg.GetInt(ctx, config.MaxRetries)
}

func resolveNextRunAt(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return nil, fmt.Errorf("invalid \"next_run_at\": %w", err)
	}
	t = t.UTC()
	return &t, nil
}
