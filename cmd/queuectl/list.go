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

func cmdList(gf *globalFlags, args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	stateFlag := fs.String("state", "", "filter by state: pending, processing, completed, failed, dead")
	limit := fs.Int("limit", 50, "maximum number of jobs to list, <= 0 for no limit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	state := jobstate.Unknown
	if *stateFlag != "" {
		parsed, err := jobstate.Parse(*stateFlag)
		if err != nil {
			return err
		}
		state = parsed
	}

	ctx := context.Background()
	db, _, err := openStore(ctx, gf)
	if err != nil {
		return err
	}
	defer db.Close()

	jobs, err := db.ListJobs(ctx, state, *limit)
	if err != nil {
		return fmt.Errorf("list jobs: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATE\tATTEMPTS\tMAX_RETRIES\tNEXT_RUN_AT\tCOMMAND")
	for _, j := range jobs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n",
			j.ID, j.State, j.Attempts, j.MaxRetries,
			j.NextRunAt.Format("2006-01-02T15:04:05Z07:00"), j.Command)
	}
	return w.Flush()
}
