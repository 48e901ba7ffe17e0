package storage

import (
	"context"
	"time"

	"github.com/queuectl/queuectl/internal/jobstate"
)

// RetryDLQ moves a Dead job back to Pending, setting NextRunAt to now
// and clearing LastError. If resetAttempts is true, Attempts is also
// reset to zero, giving the job a fresh retry budget.
//
// RetryDLQ only updates a row whose current state is Dead; it returns
// (false, nil) if no such job exists.
func (s *Store) RetryDLQ(ctx context.Context, jobID string, resetAttempts bool) (bool, error) {
	now := time.Now().UTC()
	q := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", jobstate.Pending).
		Set("next_run_at = ?", now).
		Set("updated_at = ?", now).
		Set("last_error = NULL").
		Where("id = ?", jobID).
		Where("state = ?", jobstate.Dead)
	if resetAttempts {
		q = q.Set("attempts = 0")
	}
	res, err := q.Exec(ctx)
	if err != nil {
		return false, err
	}
	return isAffected(res), nil
}

// DeleteDLQ permanently removes a job, but only if its current state
// is Dead. Non-dead jobs cannot be deleted through this operation.
//
// DeleteDLQ returns (false, nil) if no Dead job with the given id
// exists.
func (s *Store) DeleteDLQ(ctx context.Context, jobID string) (bool, error) {
	res, err := s.db.NewDelete().
		Model((*jobModel)(nil)).
		Where("id = ?", jobID).
		Where("state = ?", jobstate.Dead).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	return isAffected(res), nil
}
