package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/queuectl/queuectl/internal/jobstate"
)

func cmdDLQ(gf *globalFlags, args []string, log *slog.Logger) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: dlq list|retry|delete [flags]")
	}
	switch args[0] {
	case "list":
		return dlqList(gf, args[1:], log)
	case "retry":
		return dlqRetry(gf, args[1:], log)
	case "delete":
		return dlqDelete(gf, args[1:], log)
	default:
		return fmt.Errorf("unknown dlq subcommand: %s", args[0])
	}
}

func dlqList(gf *globalFlags, args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("dlq list", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	db, _, err := openStore(ctx, gf)
	if err != nil {
		return err
	}
	defer db.Close()

	jobs, err := db.ListJobs(ctx, jobstate.Dead, 0)
	if err != nil {
		return fmt.Errorf("list dead jobs: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tATTEMPTS\tLAST_ERROR\tCOMMAND")
	for _, j := range jobs {
		lastErr := ""
		if j.LastError != nil {
			lastErr = *j.LastError
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", j.ID, j.Attempts, lastErr, j.Command)
	}
	return w.Flush()
}

func dlqRetry(gf *globalFlags, args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("dlq retry", flag.ContinueOnError)
	noReset := fs.Bool("no-reset-attempts", false, "keep the existing attempt count instead of resetting it to zero")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) != 1 {
		return fmt.Errorf("usage: dlq retry <id> [--no-reset-attempts]")
	}
	id := rest[0]

	ctx := context.Background()
	db, _, err := openStore(ctx, gf)
	if err != nil {
		return err
	}
	defer db.Close()

	ok, err := db.RetryDLQ(ctx, id, !*noReset)
	if err != nil {
		return fmt.Errorf("retry %s: %w", id, err)
	}
	if !ok {
		return fmt.Errorf("job %q is not in the dead letter queue", id)
	}

	fmt.Printf("✓ requeued job %s\n", id)
	return nil
}

func dlqDelete(gf *globalFlags, args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("dlq delete", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) != 1 {
		return fmt.Errorf("usage: dlq delete <id>")
	}
	id := rest[0]

	ctx := context.Background()
	db, _, err := openStore(ctx, gf)
	if err != nil {
		return err
	}
	defer db.Close()

	ok, err := db.DeleteDLQ(ctx, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	if !ok {
		return fmt.Errorf("job %q is not in the dead letter queue", id)
	}

	fmt.Printf("✓ deleted job %s\n", id)
	return nil
}
