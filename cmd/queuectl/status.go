package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"
)

func cmdStatus(gf *globalFlags, args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	db, _, err := openStore(ctx, gf)
	if err != nil {
		return err
	}
	defer db.Close()

	counts, err := db.GetCounts(ctx)
	if err != nil {
		return fmt.Errorf("get counts: %w", err)
	}
	workers, err := db.ListWorkers(ctx)
	if err != nil {
		return fmt.Errorf("list workers: %w", err)
	}

	fmt.Printf("pending=%d processing=%d completed=%d failed=%d dead=%d total=%d\n",
		counts.Pending, counts.Processing, counts.Completed, counts.Failed, counts.Dead, counts.Total())

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WORKER\tPID\tSTARTED_AT\tLAST_HEARTBEAT")
	for _, wr := range workers {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
			wr.WorkerID, wr.PID,
			wr.StartedAt.Format(time.RFC3339),
			wr.LastHeartbeat.Format(time.RFC3339))
	}
	return w.Flush()
}
