package queuectl

import (
	"context"

	"github.com/queuectl/queuectl/internal/jobstate"
	"github.com/queuectl/queuectl/internal/storage"
	"github.com/queuectl/queuectl/job"
)

// Observer provides read-only access to jobs and worker registrations.
//
// Observer does not modify job state and does not participate in lease
// handling. It is intended for diagnostic and administrative use, such
// as the list and status CLI commands.
type Observer interface {

	// GetJob returns the job identified by id, or (nil, nil) if it does
	// not exist.
	GetJob(ctx context.Context, id string) (*job.Job, error)

	// ListJobs returns up to limit jobs matching state, most recently
	// created first. jobstate.Unknown means no filter; limit <= 0 means
	// no cap.
	ListJobs(ctx context.Context, state jobstate.State, limit int) ([]*job.Job, error)

	// GetCounts returns the number of jobs in each state.
	GetCounts(ctx context.Context) (storage.Counts, error)

	// ListWorkers returns every registered worker, for observability
	// only: correctness of the dispatch engine never depends on it.
	ListWorkers(ctx context.Context) ([]*storage.WorkerRecord, error)
}
