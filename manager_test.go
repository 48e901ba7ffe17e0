package queuectl_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/queuectl/queuectl"
	"github.com/queuectl/queuectl/internal/jobstate"
	"github.com/queuectl/queuectl/internal/storage"
)

// noChildren is a childArg that is never invoked because these tests
// run the Manager with Count: 0 — real process forking belongs to an
// end-to-end test against the built binary, not this package's unit
// tests.
func noChildren(int) []string { return nil }

func TestManagerWritesAndRemovesPIDFile(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pidFile := filepath.Join(t.TempDir(), "queuectl.pid")
	m := queuectl.NewManager(queuectl.ManagerConfig{
		Count:   0,
		PIDFile: pidFile,
	}, s, slog.Default(), noChildren)

	if err := m.Start(ctx); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(pidFile); err != nil {
		t.Fatalf("expected pid file to exist after Start, got %v", err)
	}

	if err := m.Stop(time.Second); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(pidFile); !os.IsNotExist(err) {
		t.Fatalf("expected pid file to be removed after Stop, got %v", err)
	}
}

func TestManagerRecoversAbandonedLeasesOnStart(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := s.Enqueue(ctx, &storage.EnqueueRequest{ID: "stuck", Command: "true"}); err != nil {
		t.Fatal(err)
	}
	jb, err := s.Acquire(ctx, "dead-worker")
	if err != nil || jb == nil {
		t.Fatalf("acquire failed: %v", err)
	}

	// Manager.Start only forwards AbandonedThreshold to the same
	// RecoverAbandoned primitive under test elsewhere, so here a
	// threshold of 0 seconds is enough to make the just-acquired lease
	// immediately eligible for recovery.
	m := queuectl.NewManager(queuectl.ManagerConfig{
		Count:              0,
		AbandonedThreshold: 0,
	}, s, slog.Default(), noChildren)

	if err := m.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer m.Stop(time.Second)

	got, err := s.GetJob(ctx, "stuck")
	if err != nil {
		t.Fatal(err)
	}
	if got.State != jobstate.Pending {
		t.Fatalf("expected Manager.Start to recover the abandoned lease, got %v", got.State)
	}
}

func TestManagerDoubleStartFails(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := queuectl.NewManager(queuectl.ManagerConfig{Count: 0}, s, slog.Default(), noChildren)
	if err := m.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer m.Stop(time.Second)

	if err := m.Start(ctx); err != queuectl.ErrDoubleStarted {
		t.Fatalf("expected ErrDoubleStarted, got %v", err)
	}
}
