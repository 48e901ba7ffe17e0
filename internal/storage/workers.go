package storage

import (
	"context"
	"time"
)

// RegisterWorker records a newly started worker's identity and PID.
// Calling it again for the same worker ID replaces the existing row.
func (s *Store) RegisterWorker(ctx context.Context, workerID string, pid int) error {
	now := time.Now().UTC()
	_, err := s.db.NewInsert().
		Model(&workerModel{
			WorkerID:      workerID,
			PID:           pid,
			StartedAt:     now,
			LastHeartbeat: now,
		}).
		On("CONFLICT (worker_id) DO UPDATE").
		Set("pid = EXCLUDED.pid").
		Set("started_at = EXCLUDED.started_at").
		Set("last_heartbeat = EXCLUDED.last_heartbeat").
		Exec(ctx)
	return err
}

// UnregisterWorker removes a worker's registry row on clean shutdown.
func (s *Store) UnregisterWorker(ctx context.Context, workerID string) error {
	_, err := s.db.NewDelete().
		Model((*workerModel)(nil)).
		Where("worker_id = ?", workerID).
		Exec(ctx)
	return err
}

// Heartbeat refreshes a worker's last_heartbeat column.
func (s *Store) Heartbeat(ctx context.Context, workerID string) error {
	_, err := s.db.NewUpdate().
		Model((*workerModel)(nil)).
		Set("last_heartbeat = ?", time.Now().UTC()).
		Where("worker_id = ?", workerID).
		Exec(ctx)
	return err
}

// ListWorkers returns every registered worker, oldest first. Rows may
// be stale if a worker crashed without deregistering; correctness of
// the dispatch engine never depends on this table.
func (s *Store) ListWorkers(ctx context.Context) ([]*WorkerRecord, error) {
	var rows []*workerModel
	if err := s.db.NewSelect().Model(&rows).Order("started_at ASC").Scan(ctx); err != nil {
		return nil, err
	}
	ret := make([]*WorkerRecord, len(rows))
	for i, r := range rows {
		ret[i] = r.toRecord()
	}
	return ret, nil
}
