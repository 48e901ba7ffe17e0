package storage

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/queuectl/queuectl/internal/jobstate"
	"github.com/queuectl/queuectl/job"
)

type jobModel struct {
	bun.BaseModel `bun:"table:jobs"`
	ID            string `bun:"id,pk"`
	Command       string `bun:"command,notnull"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
	NextRunAt time.Time `bun:"next_run_at,nullzero,notnull"`

	State      jobstate.State `bun:"state,notnull,default:0"`
	Attempts   int            `bun:"attempts,notnull,default:0"`
	MaxRetries int            `bun:"max_retries,notnull,default:0"`

	LastError *string    `bun:"last_error,nullzero,default:null"`
	LockedBy  *string    `bun:"locked_by,nullzero,default:null"`
	LockedAt  *time.Time `bun:"locked_at,nullzero,default:null"`
}

func (jm *jobModel) toJob() *job.Job {
	return &job.Job{
		ID:         jm.ID,
		Command:    jm.Command,
		CreatedAt:  jm.CreatedAt,
		UpdatedAt:  jm.UpdatedAt,
		NextRunAt:  jm.NextRunAt,
		State:      jm.State,
		Attempts:   jm.Attempts,
		MaxRetries: jm.MaxRetries,
		LastError:  jm.LastError,
		LockedBy:   jm.LockedBy,
		LockedAt:   jm.LockedAt,
	}
}

// EnqueueRequest describes a job to be inserted by Enqueue.
type EnqueueRequest struct {
	ID         string
	Command    string
	MaxRetries int
	NextRunAt  *time.Time
}

func fromRequest(req *EnqueueRequest) *jobModel {
	now := time.Now().UTC()
	nextRun := now
	if req.NextRunAt != nil {
		nextRun = *req.NextRunAt
	}
	return &jobModel{
		ID:         req.ID,
		Command:    req.Command,
		CreatedAt:  now,
		UpdatedAt:  now,
		NextRunAt:  nextRun,
		State:      jobstate.Pending,
		MaxRetries: req.MaxRetries,
	}
}

type configModel struct {
	bun.BaseModel `bun:"table:config"`
	Key           string `bun:"key,pk"`
	Value         string `bun:"value,notnull"`
}

type workerModel struct {
	bun.BaseModel `bun:"table:workers"`
	WorkerID      string    `bun:"worker_id,pk"`
	PID           int       `bun:"pid,notnull"`
	StartedAt     time.Time `bun:"started_at,nullzero,notnull"`
	LastHeartbeat time.Time `bun:"last_heartbeat,nullzero,notnull"`
}

// WorkerRecord is a read-only snapshot of a worker registry row.
type WorkerRecord struct {
	WorkerID      string
	PID           int
	StartedAt     time.Time
	LastHeartbeat time.Time
}

func (wm *workerModel) toRecord() *WorkerRecord {
	return &WorkerRecord{
		WorkerID:      wm.WorkerID,
		PID:           wm.PID,
		StartedAt:     wm.StartedAt,
		LastHeartbeat: wm.LastHeartbeat,
	}
}

// Counts tallies jobs per state, as returned by Store.GetCounts.
type Counts struct {
	Pending    int64
	Processing int64
	Completed  int64
	Failed     int64
	Dead       int64
}

// Total returns the sum of all per-state counts.
func (c Counts) Total() int64 {
	return c.Pending + c.Processing + c.Completed + c.Failed + c.Dead
}
