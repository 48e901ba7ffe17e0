package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/queuectl/queuectl/internal/jobstate"
	"github.com/queuectl/queuectl/job"
)

// GetJob retrieves a job by id. If no job with the given id exists,
// GetJob returns (nil, nil).
func (s *Store) GetJob(ctx context.Context, id string) (*job.Job, error) {
	var row jobModel
	err := s.db.NewSelect().
		Model(&row).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row.toJob(), nil
}

// ListJobs returns up to limit jobs, most recently created first. If
// state is jobstate.Unknown, no state filter is applied. If limit is
// zero or negative, no LIMIT clause is added.
func (s *Store) ListJobs(ctx context.Context, state jobstate.State, limit int) ([]*job.Job, error) {
	var rows []*jobModel
	q := s.db.NewSelect().Model(&rows).Order("created_at DESC")
	if state != jobstate.Unknown {
		q = q.Where("state = ?", state)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	ret := make([]*job.Job, len(rows))
	for i, r := range rows {
		ret[i] = r.toJob()
	}
	return ret, nil
}

// GetCounts returns the number of jobs in each state.
func (s *Store) GetCounts(ctx context.Context) (Counts, error) {
	var rows []struct {
		State jobstate.State `bun:"state"`
		N     int64          `bun:"n"`
	}
	err := s.db.NewSelect().
		Model((*jobModel)(nil)).
		ColumnExpr("state").
		ColumnExpr("count(*) AS n").
		GroupExpr("state").
		Scan(ctx, &rows)
	if err != nil {
		return Counts{}, err
	}
	var counts Counts
	for _, r := range rows {
		switch r.State {
		case jobstate.Pending:
			counts.Pending = r.N
		case jobstate.Processing:
			counts.Processing = r.N
		case jobstate.Completed:
			counts.Completed = r.N
		case jobstate.Failed:
			counts.Failed = r.N
		case jobstate.Dead:
			counts.Dead = r.N
		}
	}
	return counts, nil
}
