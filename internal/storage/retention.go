package storage

import (
	"context"
	"time"

	"github.com/queuectl/queuectl/internal/jobstate"
)

// DeleteFinished permanently removes jobs in state Completed or Dead.
// If before is non-nil, only rows whose UpdatedAt is older than *before
// are removed; otherwise every finished job is removed. It returns the
// number of rows deleted.
//
// DeleteFinished is the only operation in this package that deletes
// non-DLQ rows; it exists purely for optional operator-driven
// retention and is never invoked as part of normal dispatch.
func (s *Store) DeleteFinished(ctx context.Context, before *time.Time) (int64, error) {
	q := s.db.NewDelete().
		Model((*jobModel)(nil)).
		Where("state IN (?, ?)", jobstate.Completed, jobstate.Dead)
	if before != nil {
		q = q.Where("updated_at < ?", *before)
	}
	res, err := q.Exec(ctx)
	if err != nil {
		return 0, err
	}
	return getAffected(res), nil
}
