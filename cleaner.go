package queuectl

import "context"

// DLQ provides operator disposition of jobs quarantined in the dead
// letter queue (jobs in the Dead state).
type DLQ interface {

	// RetryDLQ moves a Dead job back to Pending. If resetAttempts is
	// true, Attempts is reset to zero, giving the job a fresh retry
	// budget. It returns (false, nil) if the job is not Dead or does
	// not exist.
	RetryDLQ(ctx context.Context, jobID string, resetAttempts bool) (bool, error)

	// DeleteDLQ permanently removes a job, but only if it is Dead. It
	// returns (false, nil) if the job is not Dead or does not exist.
	DeleteDLQ(ctx context.Context, jobID string) (bool, error)
}
