package queuectl

import (
	"context"
	"log/slog"
	"time"

	"github.com/queuectl/queuectl/internal"
)

// Retention permanently removes finished jobs, independent of normal
// dispatch. It is the only interface in this package that deletes
// non-DLQ rows.
type Retention interface {

	// DeleteFinished removes every job in state Completed or Dead. If
	// before is non-nil, only rows whose UpdatedAt predates it are
	// removed. It returns the number of rows deleted.
	DeleteFinished(ctx context.Context, before *time.Time) (int64, error)
}

// GCConfig configures a GCWorker.
//
// Interval defines how often the sweep runs.
//
// MaxAge, if nonzero, restricts deletion to jobs whose UpdatedAt is
// older than now - MaxAge. A zero MaxAge deletes every finished job on
// each sweep.
type GCConfig struct {
	Interval time.Duration
	MaxAge   time.Duration
}

// GCWorker periodically deletes finished (Completed or Dead) jobs.
//
// GCWorker is disabled by default: a queuectl database retains every
// job indefinitely until an operator opts into retention by starting
// one. It does not participate in dispatch and never touches Pending,
// Processing, or Failed jobs.
//
// GCWorker has the same strict lifecycle as Worker and Manager: Start
// may only be called once, and Stop waits for the in-flight sweep to
// finish or the timeout to elapse.
type GCWorker struct {
	lcBase
	retention Retention
	task      internal.TimerTask
	log       *slog.Logger
	interval  time.Duration
	maxAge    time.Duration
}

// NewGCWorker creates a GCWorker. The worker is not started
// automatically; call Start to begin periodic sweeps.
func NewGCWorker(retention Retention, config GCConfig, log *slog.Logger) *GCWorker {
	return &GCWorker{
		retention: retention,
		log:       log,
		interval:  config.Interval,
		maxAge:    config.MaxAge,
	}
}

func (gc *GCWorker) beforeStamp() *time.Time {
	if gc.maxAge <= 0 {
		return nil
	}
	ret := time.Now().UTC().Add(-gc.maxAge)
	return &ret
}

func (gc *GCWorker) sweep(ctx context.Context) {
	before := gc.beforeStamp()
	count, err := gc.retention.DeleteFinished(ctx, before)
	if err != nil {
		gc.log.Error("gc sweep failed", "err", err)
		return
	}
	if count > 0 {
		gc.log.Info("gc sweep removed finished jobs", "count", count)
	}
}

// Start begins periodic sweeps. Start returns ErrDoubleStarted if the
// worker has already been started.
func (gc *GCWorker) Start(ctx context.Context) error {
	if err := gc.tryStart(); err != nil {
		return err
	}
	gc.task.Start(ctx, gc.sweep, gc.interval)
	return nil
}

// Stop terminates the background sweep task, waiting up to timeout for
// the in-flight sweep to finish.
func (gc *GCWorker) Stop(timeout time.Duration) error {
	return gc.tryStop(timeout, gc.task.Stop)
}
