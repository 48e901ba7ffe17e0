package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"text/tabwriter"
)

func cmdConfig(gf *globalFlags, args []string, log *slog.Logger) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: config set|get|show [flags]")
	}
	switch args[0] {
	case "set":
		return configSet(gf, args[1:], log)
	case "get":
		return configGet(gf, args[1:], log)
	case "show":
		return configShow(gf, args[1:], log)
	default:
		return fmt.Errorf("unknown config subcommand: %s", args[0])
	}
}

func configSet(gf *globalFlags, args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("config set", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) != 2 {
		return fmt.Errorf("usage: config set <key> <value>")
	}
	key, value := rest[0], rest[1]

	ctx := context.Background()
	db, cfg, err := openStore(ctx, gf)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := cfg.Set(ctx, key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	fmt.Printf("✓ set %s = %s\n", key, value)
	return nil
}

func configGet(gf *globalFlags, args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("config get", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) != 1 {
		return fmt.Errorf("usage: config get <key>")
	}
	key := rest[0]

	ctx := context.Background()
	db, cfg, err := openStore(ctx, gf)
	if err != nil {
		return err
	}
	defer db.Close()

	value, err := cfg.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}

	fmt.Println(value)
	return nil
}

func configShow(gf *globalFlags, args []string, log *slog.Logger) error {
	fs := flag.NewFlagSet("config show", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	db, cfg, err := openStore(ctx, gf)
	if err != nil {
		return err
	}
	defer db.Close()

	all, err := cfg.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("show config: %w", err)
	}

	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE")
	for _, k := range keys {
		fmt.Fprintf(w, "%s\t%s\n", k, all[k])
	}
	return w.Flush()
}
