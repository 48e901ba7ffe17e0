package queuectl

import (
	"context"

	"github.com/queuectl/queuectl/job"
)

// Dispatcher defines the read-write contract Worker uses to manage a
// job's lifecycle once acquired.
//
// Dispatcher mirrors a lease-based consumption model: Acquire
// transitions a ready job to Processing; the job becomes visible again
// only via Complete/Fail or the recovery sweep, never by a second
// concurrent Acquire.
type Dispatcher interface {

	// Acquire selects the single oldest ready job (state Pending or
	// Failed, NextRunAt <= now) and atomically transitions it to
	// Processing, incrementing Attempts and setting the lease to
	// workerID. It returns (nil, nil) if no ready job exists, including
	// when the caller loses a race against a concurrent Acquire.
	Acquire(ctx context.Context, workerID string) (*job.Job, error)

	// Complete transitions a job to Completed and clears its lease.
	// Idempotent with respect to repeated completion.
	Complete(ctx context.Context, jobID string) error

	// Fail records a failed attempt. The job transitions to Dead once
	// its post-Acquire Attempts exceeds MaxRetries (so a job fails at
	// most MaxRetries+1 times before dying), or to Failed with
	// NextRunAt advanced by backoffBase^attempts seconds otherwise.
	Fail(ctx context.Context, jobID string, errMsg string, backoffBase int) error
}

// Recoverer reclaims leases abandoned by crashed workers.
type Recoverer interface {

	// RecoverAbandoned resets every Processing job whose lease is older
	// than thresholdSeconds back to Pending, without touching Attempts,
	// and returns the number of jobs reclaimed.
	RecoverAbandoned(ctx context.Context, thresholdSeconds int) (int64, error)
}
