// Command queuectl is the operator-facing CLI for the durable shell
// command job queue implemented by the queuectl package.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
)

type globalFlags struct {
	dbPath   string
	logLevel string
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("queuectl", flag.ContinueOnError)
	gf := &globalFlags{}
	fs.StringVar(&gf.dbPath, "db", "queuectl.db", "path to the database file")
	fs.StringVar(&gf.logLevel, "log-level", "INFO", "log level: DEBUG, INFO, WARN, ERROR")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return 1
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fmt.Fprintln(os.Stderr, "usage: queuectl [--db path] [--log-level level] <command> [args...]")
		return 1
	}

	log := newLogger(gf.logLevel)
	cmd, cmdArgs := rest[0], rest[1:]

	var err error
	switch cmd {
	case "init":
		err = cmdInit(gf, cmdArgs, log)
	case "enqueue":
		err = cmdEnqueue(gf, cmdArgs, log)
	case "list":
		err = cmdList(gf, cmdArgs, log)
	case "status":
		err = cmdStatus(gf, cmdArgs, log)
	case "worker":
		err = cmdWorker(gf, cmdArgs, log)
	case "dlq":
		err = cmdDLQ(gf, cmdArgs, log)
	case "config":
		err = cmdConfig(gf, cmdArgs, log)
	case "__run-worker":
		err = runWorkerProcess(gf, cmdArgs, log)
	default:
		fmt.Fprintf(os.Stderr, "✗ unknown command: %s\n", cmd)
		return 1
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		return 1
	}
	return 0
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	h := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	return slog.New(h)
}
