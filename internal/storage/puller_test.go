package storage_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/queuectl/queuectl/internal/jobstate"
	"github.com/queuectl/queuectl/internal/storage"
)

func TestAcquireAndComplete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	inserted, err := s.Enqueue(ctx, &storage.EnqueueRequest{ID: "j1", Command: "true", MaxRetries: 3})
	if err != nil {
		t.Fatal(err)
	}
	if !inserted {
		t.Fatal("expected job to be inserted")
	}

	jb, err := s.Acquire(ctx, "worker-a")
	if err != nil {
		t.Fatal(err)
	}
	if jb == nil {
		t.Fatal("expected a job")
	}
	if jb.State != jobstate.Processing {
		t.Fatalf("expected Processing, got %v", jb.State)
	}
	if jb.Attempts != 1 {
		t.Fatalf("expected attempts 1, got %d", jb.Attempts)
	}
	if jb.LockedBy == nil || *jb.LockedBy != "worker-a" {
		t.Fatalf("expected lease held by worker-a, got %v", jb.LockedBy)
	}

	if err := s.Complete(ctx, jb.ID); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetJob(ctx, jb.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.State != jobstate.Completed {
		t.Fatalf("expected Completed, got %v", got.State)
	}
	if got.LockedBy != nil {
		t.Fatal("expected lease cleared on completion")
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Enqueue(ctx, &storage.EnqueueRequest{ID: "j1", Command: "true"}); err != nil {
		t.Fatal(err)
	}
	jb, err := s.Acquire(ctx, "worker-a")
	if err != nil || jb == nil {
		t.Fatalf("acquire failed: %v", err)
	}

	if err := s.Complete(ctx, jb.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Complete(ctx, jb.ID); err != nil {
		t.Fatalf("repeated Complete must not error, got %v", err)
	}
	if err := s.Complete(ctx, "does-not-exist"); err != nil {
		t.Fatalf("Complete on unknown id must not error, got %v", err)
	}
}

func TestAcquireNoReadyJob(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	jb, err := s.Acquire(ctx, "worker-a")
	if err != nil {
		t.Fatal(err)
	}
	if jb != nil {
		t.Fatal("expected no job to be ready")
	}
}

// TestFailRetriesThenDies drives a job through its full retry budget.
// It passes backoff_base=0 to Fail so that next_run_at lands in the
// past immediately (0^attempts == 0), letting the test step through
// every attempt without waiting on real backoff delays; backoff timing
// itself is covered separately in TestBackoffMonotonic.
func TestFailRetriesThenDies(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Enqueue(ctx, &storage.EnqueueRequest{ID: "j1", Command: "false", MaxRetries: 2}); err != nil {
		t.Fatal(err)
	}

	// max_retries=2: attempts 1 and 2 fail into Failed; attempt 3
	// exceeds the budget and dies. Final attempts must equal 3.
	for attempt := 1; attempt <= 2; attempt++ {
		jb, err := s.Acquire(ctx, "worker-a")
		if err != nil || jb == nil {
			t.Fatalf("acquire %d failed: %v", attempt, err)
		}
		if jb.Attempts != attempt {
			t.Fatalf("expected attempts %d, got %d", attempt, jb.Attempts)
		}
		if err := s.Fail(ctx, jb.ID, fmt.Sprintf("attempt %d failed", attempt), 0); err != nil {
			t.Fatal(err)
		}
		got, err := s.GetJob(ctx, jb.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.State != jobstate.Failed {
			t.Fatalf("expected Failed after attempt %d, got %v", attempt, got.State)
		}
	}

	jb, err := s.Acquire(ctx, "worker-a")
	if err != nil || jb == nil {
		t.Fatalf("final acquire failed: %v", err)
	}
	if jb.Attempts != 3 {
		t.Fatalf("expected attempts 3 before dying, got %d", jb.Attempts)
	}
	if err := s.Fail(ctx, jb.ID, "Exit code: 1", 0); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetJob(ctx, jb.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.State != jobstate.Dead {
		t.Fatalf("expected Dead after exhausting retry budget, got %v", got.State)
	}
	if got.Attempts != 3 {
		t.Fatalf("expected attempts 3 (max_retries+1), got %d", got.Attempts)
	}
	if got.LockedBy != nil {
		t.Fatal("expected lease cleared on death")
	}
	if got.LastError == nil || *got.LastError != "Exit code: 1" {
		t.Fatalf("expected last_error to be recorded, got %v", got.LastError)
	}
}

func TestFailAgainstNonexistentJobIsNoOp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Fail(ctx, "does-not-exist", "boom", 2); err != nil {
		t.Fatalf("Fail on unknown id must not error, got %v", err)
	}
}

func TestRecoverAbandoned(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Enqueue(ctx, &storage.EnqueueRequest{ID: "j1", Command: "sleep 100"}); err != nil {
		t.Fatal(err)
	}
	jb, err := s.Acquire(ctx, "worker-a")
	if err != nil || jb == nil {
		t.Fatalf("acquire failed: %v", err)
	}

	n, err := s.RecoverAbandoned(ctx, 3600)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("lease is fresh, expected nothing recovered, got %d", n)
	}

	n, err = s.RecoverAbandoned(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected 1 job recovered, got %d", n)
	}

	got, err := s.GetJob(ctx, jb.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.State != jobstate.Pending {
		t.Fatalf("expected Pending after recovery, got %v", got.State)
	}
	if got.Attempts != 1 {
		t.Fatalf("recovery must not touch attempts, got %d", got.Attempts)
	}
	if got.LockedBy != nil {
		t.Fatal("expected lease cleared by recovery")
	}

	n, err = s.RecoverAbandoned(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("re-running recovery with no stale lease must affect nothing, got %d", n)
	}
}

func TestConcurrentAcquireDispatchesEachJobOnce(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const jobCount = 5
	for i := 0; i < jobCount; i++ {
		id := fmt.Sprintf("job-%d", i)
		if _, err := s.Enqueue(ctx, &storage.EnqueueRequest{ID: id, Command: "true"}); err != nil {
			t.Fatal(err)
		}
	}

	var mu sync.Mutex
	seen := map[string]int{}
	var wg sync.WaitGroup
	for w := 0; w < jobCount; w++ {
		workerID := fmt.Sprintf("worker-%d", w)
		wg.Add(1)
		go func(workerID string) {
			defer wg.Done()
			for {
				jb, err := s.Acquire(ctx, workerID)
				if err != nil {
					t.Error(err)
					return
				}
				if jb == nil {
					return
				}
				mu.Lock()
				seen[jb.ID]++
				mu.Unlock()
			}
		}(workerID)
	}
	wg.Wait()

	if len(seen) != jobCount {
		t.Fatalf("expected %d distinct jobs dispatched, got %d", jobCount, len(seen))
	}
	for id, count := range seen {
		if count != 1 {
			t.Fatalf("job %s was dispatched %d times, want exactly once", id, count)
		}
	}
}

// TestBackoffMonotonic asserts property 4 of the spec for several
// (base, attempts) pairs: earlier failures use base 0 so they are
// immediately retryable, and after the final failure the gap between
// that failure and next_run_at is within one second of base^attempts
// seconds.
func TestBackoffMonotonic(t *testing.T) {
	cases := []struct {
		base     int
		attempts int
	}{
		{base: 2, attempts: 1},
		{base: 2, attempts: 2},
		{base: 3, attempts: 1},
	}

	for _, tc := range cases {
		s := newTestStore(t)
		ctx := context.Background()
		id := fmt.Sprintf("job-b%d-a%d", tc.base, tc.attempts)
		if _, err := s.Enqueue(ctx, &storage.EnqueueRequest{ID: id, Command: "false", MaxRetries: 10}); err != nil {
			t.Fatal(err)
		}

		for i := 0; i < tc.attempts-1; i++ {
			acquired, err := s.Acquire(ctx, "worker-a")
			if err != nil || acquired == nil {
				t.Fatalf("acquire failed: %v", err)
			}
			if err := s.Fail(ctx, acquired.ID, "boom", 0); err != nil {
				t.Fatal(err)
			}
		}

		final, err := s.Acquire(ctx, "worker-a")
		if err != nil || final == nil {
			t.Fatalf("final acquire failed: %v", err)
		}

		before := time.Now().UTC()
		if err := s.Fail(ctx, final.ID, "boom", tc.base); err != nil {
			t.Fatal(err)
		}
		got, err := s.GetJob(ctx, final.ID)
		if err != nil {
			t.Fatal(err)
		}

		want := time.Duration(1) * time.Second
		for i := 0; i < tc.attempts; i++ {
			want *= time.Duration(tc.base)
		}
		delay := got.NextRunAt.Sub(before)
		if delta := delay - want; delta < -time.Second || delta > time.Second {
			t.Fatalf("base=%d attempts=%d: expected backoff near %v, got %v", tc.base, tc.attempts, want, delay)
		}
	}
}
