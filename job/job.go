package job

import (
	"time"

	"github.com/queuectl/queuectl/internal/jobstate"
)

// Job represents a unit of work managed by queue storage: a shell
// command together with its delivery state and scheduling metadata.
//
// CreatedAt records when the job was enqueued. UpdatedAt records the
// last state transition.
//
// State represents the current lifecycle state (see package jobstate).
// Attempts counts how many times the job has been acquired by a
// worker. MaxRetries is the retry budget fixed at enqueue time; the
// job becomes Dead on its (MaxRetries+1)th failure.
//
// LockedBy and LockedAt are non-nil if and only if State is
// Processing; together they form the job's lease. NextRunAt is the
// earliest time the job may be acquired; it is set whenever the job is
// Pending or Failed.
//
// LastError holds a truncated excerpt of the most recent failure, or a
// synthetic message, and is nil until the first failure.
//
// Job values are snapshots of storage state. Mutating fields directly
// does not change the underlying queue; transitions must go through
// the storage operations that returned the snapshot.
type Job struct {
	ID      string
	Command string

	CreatedAt time.Time
	UpdatedAt time.Time
	NextRunAt time.Time

	State      jobstate.State
	Attempts   int
	MaxRetries int

	LastError *string
	LockedBy  *string
	LockedAt  *time.Time
}
