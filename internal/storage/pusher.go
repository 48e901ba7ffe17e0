package storage

import (
	"context"
	"strings"
)

// Enqueue inserts a new job in the Pending state with Attempts=0.
// CreatedAt and UpdatedAt are stamped to now; NextRunAt defaults to now
// when req.NextRunAt is nil.
//
// Enqueue returns (false, nil) if a job with req.ID already exists.
// Uniqueness is enforced by the jobs table's primary key, not by a
// pre-check: Enqueue always attempts the insert and classifies a
// constraint violation as a non-error "already exists" result.
func (s *Store) Enqueue(ctx context.Context, req *EnqueueRequest) (bool, error) {
	model := fromRequest(req)
	_, err := s.db.NewInsert().
		Model(model).
		Exec(ctx)
	if err == nil {
		return true, nil
	}
	if isUniqueViolation(err) {
		return false, nil
	}
	return false, err
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint")
}
