package storage

import "errors"

var (
	// ErrDuplicateID names the condition of enqueuing an id that
	// already exists. Enqueue does not return it: a duplicate id is
	// reported as (false, nil).
	ErrDuplicateID = errors.New("job id already exists")

	// ErrJobNotFound names the condition of referencing a job that does
	// not exist, or not in the state an operation requires. No Store
	// operation returns it: Fail treats a missing job as a no-op, and
	// RetryDLQ and DeleteDLQ report a missing or non-Dead job as
	// (false, nil).
	ErrJobNotFound = errors.New("job not found")
)
