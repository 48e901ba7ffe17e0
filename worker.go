package queuectl

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/queuectl/queuectl/internal"
	"github.com/queuectl/queuectl/internal/executor"
	"github.com/queuectl/queuectl/internal/storage"
	"github.com/queuectl/queuectl/job"
)

// WorkerConfig defines runtime behavior of a Worker.
//
// PollInterval controls how long the worker sleeps after finding no
// ready job before trying again.
//
// CommandTimeout bounds how long a single job's command may run before
// it is killed and treated as a failure. Zero means no timeout.
//
// BackoffBase is the exponential backoff base passed to Dispatcher.Fail.
//
// JobLimit caps the number of jobs this worker processes before it
// exits on its own. Zero means unlimited.
type WorkerConfig struct {
	PollInterval   time.Duration
	CommandTimeout time.Duration
	BackoffBase    int
	JobLimit       int
}

// Worker repeatedly acquires and executes a single job at a time in
// its own OS process.
//
// Unlike a pool of goroutines sharing one process, a Worker has no
// internal concurrency: it acquires one job, runs it to completion (or
// timeout), records the outcome, and only then looks for the next one.
// Isolation between jobs comes from process boundaries, not from an
// in-process scheduler.
//
// Worker has the same strict lifecycle as the rest of the package:
// Start may only be called once, and Stop waits for the current job
// (if any) to finish or the timeout to elapse.
type Worker struct {
	lcBase
	id       string
	disp     Dispatcher
	exec     *executor.Executor
	db       *storage.Store
	log      *slog.Logger
	cfg      WorkerConfig
	cancel   context.CancelFunc
	doneChan internal.DoneChan
}

// NewWorker creates a Worker identified by a random worker-<hex> name.
// db is used only for heartbeat and registry bookkeeping; job dispatch
// goes through disp.
func NewWorker(disp Dispatcher, db *storage.Store, cfg WorkerConfig, log *slog.Logger) *Worker {
	return &Worker{
		id:   "worker-" + randomHex(),
		disp: disp,
		exec: executor.New(),
		db:   db,
		cfg:  cfg,
		log:  log,
	}
}

// ID returns this worker's identity, as recorded against LockedBy and
// the worker registry.
func (w *Worker) ID() string {
	return w.id
}

// randomHex returns a short hex suffix derived from a random UUID, so
// concurrently started workers never collide on identity without
// needing to coordinate with each other or with storage.
func randomHex() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}

// Start begins the poll loop in a background goroutine.
//
// Start returns ErrDoubleStarted if the worker has already been
// started.
func (w *Worker) Start(ctx context.Context) error {
	if err := w.tryStart(); err != nil {
		return err
	}
	if err := w.db.RegisterWorker(ctx, w.id, os.Getpid()); err != nil {
		return err
	}
	loopCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.doneChan = make(internal.DoneChan)
	go w.loop(loopCtx)
	return nil
}

// Done returns a channel that closes when the poll loop exits, whether
// because of Stop, cancellation of the context passed to Start, or a
// reached job limit. Acquire errors are logged and do not end the loop.
// Callers that only need to know the worker is still running (rather
// than drive its shutdown) should select on this instead of calling
// Stop.
func (w *Worker) Done() <-chan struct{} {
	return w.doneChan
}

// Stop signals the poll loop to exit after its current job (if any)
// and waits up to timeout for it to do so.
func (w *Worker) Stop(timeout time.Duration) error {
	return w.tryStop(timeout, func() internal.DoneChan {
		w.cancel()
		return w.doneChan
	})
}

func (w *Worker) loop(ctx context.Context) {
	defer close(w.doneChan)
	defer func() {
		if err := w.db.UnregisterWorker(context.Background(), w.id); err != nil {
			w.log.Error("unregister worker failed", "worker", w.id, "err", err)
		}
	}()

	processed := 0
	for {
		if ctx.Err() != nil {
			return
		}

		jb, err := w.disp.Acquire(ctx, w.id)
		if err != nil {
			w.log.Error("acquire failed", "worker", w.id, "err", err)
			if !w.sleep(ctx) {
				return
			}
			continue
		}

		if jb == nil {
			if err := w.db.Heartbeat(ctx, w.id); err != nil {
				w.log.Warn("heartbeat failed", "worker", w.id, "err", err)
			}
			if !w.sleep(ctx) {
				return
			}
			continue
		}

		w.run(jb)
		if err := w.db.Heartbeat(context.Background(), w.id); err != nil {
			w.log.Warn("heartbeat failed", "worker", w.id, "err", err)
		}

		processed++
		if w.cfg.JobLimit > 0 && processed >= w.cfg.JobLimit {
			w.log.Info("job limit reached, exiting", "worker", w.id, "limit", w.cfg.JobLimit)
			return
		}
	}
}

// run executes a single acquired job and records its outcome.
//
// It deliberately does not pass the poll loop's cancelable context to
// Execute: os/exec's CommandContext kills the process the instant its
// context is done, for any reason, not just a deadline. Running the
// command against context.Background instead means a shutdown signal
// arriving mid-job lets that job finish on its own terms; Stop simply
// waits for run to return. The same detached context is used for the
// completion/failure bookkeeping writes so the result is always
// persisted once the command has actually finished.
func (w *Worker) run(jb *job.Job) {
	w.log.Info("job started", "worker", w.id, "job", jb.ID, "command", jb.Command)
	record := context.Background()
	result := w.exec.Execute(record, jb.Command, w.cfg.CommandTimeout)

	if result.ReturnCode == 0 {
		if err := w.disp.Complete(record, jb.ID); err != nil {
			w.log.Error("complete failed", "worker", w.id, "job", jb.ID, "err", err)
		}
		w.log.Info("job completed", "worker", w.id, "job", jb.ID, "duration", result.Duration)
		return
	}

	msg := fmt.Sprintf("Exit code: %d", result.ReturnCode)
	if result.Stderr != "" {
		msg = truncate(result.Stderr, 500)
	}
	if err := w.disp.Fail(record, jb.ID, msg, w.cfg.BackoffBase); err != nil {
		w.log.Error("fail failed", "worker", w.id, "job", jb.ID, "err", err)
	}
	w.log.Warn("job failed", "worker", w.id, "job", jb.ID, "return_code", result.ReturnCode)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// sleep waits for cfg.PollInterval, or returns false early if ctx is
// canceled first.
func (w *Worker) sleep(ctx context.Context) bool {
	if w.cfg.PollInterval <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(w.cfg.PollInterval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
