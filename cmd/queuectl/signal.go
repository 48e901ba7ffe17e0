package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// installSignalHandler invokes cancel the first time SIGTERM or
// SIGINT is received, so a subprocess worker shuts down cleanly rather
// than terminating mid-job.
func installSignalHandler(cancel func(), log *slog.Logger) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-ch
		log.Info("worker process received signal", "signal", sig)
		cancel()
	}()
}
