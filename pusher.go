package queuectl

import (
	"context"

	"github.com/queuectl/queuectl/internal/storage"
)

// Enqueuer defines the write-side entry point of the queue.
type Enqueuer interface {

	// Enqueue inserts a new job. It returns (false, nil) if a job with
	// the same ID already exists; uniqueness is enforced by the
	// storage layer, not by a pre-check.
	Enqueue(ctx context.Context, req *storage.EnqueueRequest) (bool, error)
}
