package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/queuectl/queuectl/internal/jobstate"
	"github.com/queuectl/queuectl/job"
)

// Acquire is the atomic dispatch primitive. In one write-exclusive
// transaction it selects the single oldest ready job (state Pending or
// Failed, NextRunAt <= now), transitions it to Processing, increments
// Attempts, sets LockedBy/LockedAt, and refreshes UpdatedAt.
//
// Acquire returns (nil, nil) if no ready job exists. On write-lock
// contention with a concurrent Acquire, the loser also returns (nil,
// nil) rather than blocking or erroring: the caller is expected to
// poll again.
func (s *Store) Acquire(ctx context.Context, workerID string) (*job.Job, error) {
	now := time.Now().UTC()
	subQuery := s.db.NewSelect().
		Model((*jobModel)(nil)).
		Column("id").
		Where("state IN (?, ?)", jobstate.Pending, jobstate.Failed).
		Where("next_run_at <= ?", now).
		Order("created_at ASC").
		Limit(1)
	var rows []*jobModel
	err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", jobstate.Processing).
		Set("locked_by = ?", workerID).
		Set("locked_at = ?", now).
		Set("attempts = attempts + 1").
		Set("updated_at = ?", now).
		Where("id IN (?)", subQuery).
		Returning("*").
		Scan(ctx, &rows)
	if err != nil {
		if isBusy(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toJob(), nil
}

func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// Complete transitions a job to Completed, clearing lease fields and
// refreshing UpdatedAt. Complete is idempotent with respect to repeated
// completion of the same job: calling it again rewrites the same state
// (refreshing UpdatedAt) and is not an error. The update is not guarded
// by the job's current state. For an unknown id it affects zero rows
// and is not an error either.
func (s *Store) Complete(ctx context.Context, jobID string) error {
	now := time.Now().UTC()
	_, err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", jobstate.Completed).
		Set("locked_by = NULL").
		Set("locked_at = NULL").
		Set("updated_at = ?", now).
		Where("id = ?", jobID).
		Exec(ctx)
	return err
}

func computeBackoff(attempts int, base int) time.Duration {
	delay := 1
	for i := 0; i < attempts; i++ {
		delay *= base
	}
	return time.Duration(delay) * time.Second
}

// Fail records a failed attempt. A job may fail at most max_retries+1
// times: once attempts (after the increment performed by Acquire)
// exceeds max_retries, the job transitions to Dead and its lease is
// cleared. Otherwise it transitions to Failed, next_run_at is set to
// now + backoff_base^attempts seconds, and its lease is cleared so it
// becomes eligible for acquisition again.
//
// Fail against a nonexistent job is a no-op and returns nil; no warning
// is logged, and the caller cannot tell this case apart from a recorded
// failure.
func (s *Store) Fail(ctx context.Context, jobID string, errMsg string, backoffBase int) error {
	var row jobModel
	err := s.db.NewSelect().
		Model(&row).
		Column("attempts", "max_retries").
		Where("id = ?", jobID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}

	now := time.Now().UTC()
	if row.Attempts > row.MaxRetries {
		_, err := s.db.NewUpdate().
			Model((*jobModel)(nil)).
			Set("state = ?", jobstate.Dead).
			Set("locked_by = NULL").
			Set("locked_at = NULL").
			Set("last_error = ?", errMsg).
			Set("updated_at = ?", now).
			Where("id = ?", jobID).
			Exec(ctx)
		return err
	}

	nextRun := now.Add(computeBackoff(row.Attempts, backoffBase))
	_, err = s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", jobstate.Failed).
		Set("next_run_at = ?", nextRun).
		Set("locked_by = NULL").
		Set("locked_at = NULL").
		Set("last_error = ?", errMsg).
		Set("updated_at = ?", now).
		Where("id = ?", jobID).
		Exec(ctx)
	return err
}

// RecoverAbandoned resets every job whose state is Processing and
// whose LockedAt is older than thresholdSeconds back to Pending,
// clearing lease fields. Attempts is left unchanged: the abandoned
// attempt still counts against the retry budget.
//
// RecoverAbandoned returns the number of jobs reclaimed. Running it
// twice in succession with no intervening Acquire is idempotent: the
// second call affects zero rows.
func (s *Store) RecoverAbandoned(ctx context.Context, thresholdSeconds int) (int64, error) {
	cutoff := time.Now().UTC().Add(-time.Duration(thresholdSeconds) * time.Second)
	res, err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", jobstate.Pending).
		Set("locked_by = NULL").
		Set("locked_at = NULL").
		Where("state = ?", jobstate.Processing).
		Where("locked_at < ?", cutoff).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return getAffected(res), nil
}
