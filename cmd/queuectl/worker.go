package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/queuectl/queuectl/internal/config"
	"github.com/queuectl/queuectl/internal/storage"

	"github.com/queuectl/queuectl"
)

const pidFileName = ".queuectl.pid"

func cmdWorker(gf *globalFlags, args []string, log *slog.Logger) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: worker start|stop [flags]")
	}
	switch args[0] {
	case "start":
		return workerStart(gf, args[1:], log)
	case "stop":
		return workerStop(gf, args[1:], log)
	default:
		return fmt.Errorf("unknown worker subcommand: %s", args[0])
	}
}

func workerStart(gf *globalFlags, args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("worker start", flag.ContinueOnError)
	count := fs.Int("count", 0, "number of worker processes, 0 uses the configured default")
	base := fs.Int("base", 0, "exponential backoff base, 0 uses the configured default")
	limit := fs.Int("limit", 0, "jobs each worker processes before exiting, 0 for unlimited")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	db, cfg, err := openStore(ctx, gf)
	if err != nil {
		return err
	}
	defer db.Close()

	resolvedCount := *count
	if resolvedCount <= 0 {
		resolvedCount, err = cfg.GetInt(ctx, config.WorkerDefaultCount)
		if err != nil {
			return err
		}
	}
	resolvedBase := *base
	if resolvedBase <= 0 {
		resolvedBase, err = cfg.GetInt(ctx, config.BackoffBase)
		if err != nil {
			return err
		}
	}
	abandoned, err := cfg.GetInt(ctx, config.AbandonedThreshold)
	if err != nil {
		return err
	}
	pollSeconds, err := cfg.GetFloat(ctx, config.PollInterval)
	if err != nil {
		return err
	}

	mgr := queuectl.NewManager(queuectl.ManagerConfig{
		Count:              resolvedCount,
		PollInterval:       time.Duration(pollSeconds * float64(time.Second)),
		BackoffBase:        resolvedBase,
		AbandonedThreshold: abandoned,
		PIDFile:            pidFileName,
		GraceTimeout:       30 * time.Second,
	}, db, log, func(index int) []string {
		return []string{
			"--db", gf.dbPath,
			"--log-level", gf.logLevel,
			"__run-worker",
			"--base", strconv.Itoa(resolvedBase),
			"--limit", strconv.Itoa(*limit),
			"--poll", strconv.FormatFloat(pollSeconds, 'f', -1, 64),
		}
	})

	if err := mgr.Start(ctx); err != nil {
		return fmt.Errorf("start manager: %w", err)
	}
	fmt.Printf("✓ started %d worker(s)\n", resolvedCount)
	mgr.Wait()
	return nil
}

func workerStop(gf *globalFlags, args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("worker stop", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	raw, err := os.ReadFile(pidFileName)
	if err != nil {
		return fmt.Errorf("read pid file %s: %w", pidFileName, err)
	}
	pid, err := strconv.Atoi(string(raw))
	if err != nil {
		return fmt.Errorf("invalid pid file contents: %w", err)
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find manager process %d: %w", pid, err)
	}
	if err := proc.Signal(os.Interrupt); err != nil {
		return fmt.Errorf("signal manager process %d: %w", pid, err)
	}

	fmt.Printf("✓ sent shutdown signal to manager (pid %d)\n", pid)
	return nil
}

// runWorkerProcess is the hidden entry point a Manager re-execs itself
// into: a single Worker running in its own OS process until it hits
// its job limit or is signaled.
func runWorkerProcess(gf *globalFlags, args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("__run-worker", flag.ContinueOnError)
	base := fs.Int("base", 2, "exponential backoff base")
	limit := fs.Int("limit", 0, "jobs to process before exiting, 0 for unlimited")
	poll := fs.Float64("poll", 1.0, "seconds to sleep when no job is ready")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	installSignalHandler(cancel, log)

	db, err := storage.Open(gf.dbPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", gf.dbPath, err)
	}
	defer db.Close()

	w := queuectl.NewWorker(db, db, queuectl.WorkerConfig{
		PollInterval: time.Duration(*poll * float64(time.Second)),
		BackoffBase:  *base,
		JobLimit:     *limit,
	}, log)

	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("start worker: %w", err)
	}

	select {
	case <-ctx.Done():
		return w.Stop(30 * time.Second)
	case <-w.Done():
		return nil
	}
}
