// Package jobstate defines the lifecycle states of a queued job.
//
// The state machine is:
//
//	Pending    -> Processing
//	Processing -> Completed
//	Processing -> Failed      (via Fail, retries remain)
//	Processing -> Dead        (via Fail, retries exhausted)
//	Failed     -> Processing  (via Acquire, once next_run_at <= now)
//	Processing -> Pending     (via RecoverAbandoned, lease expired)
//	Dead       -> Pending     (via RetryDLQ)
//
// Completed and Dead are terminal; Dead is terminal only until an
// operator explicitly requeues the job through the DLQ.
package jobstate

import "fmt"

// State represents the current lifecycle state of a job.
//
// Unknown is reserved as the zero value and is used only to mean
// "no filter" in list/clean style queries.
type State uint8

const (
	// Unknown is the zero value; it never names a stored job's actual state.
	Unknown State = iota

	// Pending indicates the job is waiting for dispatch: newly enqueued,
	// or returned to the queue by RecoverAbandoned or RetryDLQ (in which
	// case Attempts may be nonzero). It is eligible for dispatch once
	// NextRunAt has elapsed.
	Pending

	// Processing indicates the job is currently leased by a worker.
	Processing

	// Completed indicates the job's command exited zero. Terminal.
	Completed

	// Failed indicates at least one attempt has failed but the retry
	// budget is not exhausted. Functionally identical to Pending for
	// dispatch purposes; the distinction exists for observability only.
	Failed

	// Dead indicates the retry budget is exhausted. Terminal until an
	// operator issues RetryDLQ.
	Dead
)

func toString(s State) string {
	switch s {
	case Pending:
		return "pending"
	case Processing:
		return "processing"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

func fromString(s string) (State, error) {
	switch s {
	case "pending":
		return Pending, nil
	case "processing":
		return Processing, nil
	case "completed":
		return Completed, nil
	case "failed":
		return Failed, nil
	case "dead":
		return Dead, nil
	case "unknown", "":
		return Unknown, nil
	default:
		return 0, fmt.Errorf("unknown job state: %s", s)
	}
}

// Parse converts a string representation of a state into a State value.
//
// Recognized values are the canonical lower-case names: "pending",
// "processing", "completed", "failed", "dead", and "unknown". An error
// is returned for unrecognized strings.
func Parse(s string) (State, error) {
	return fromString(s)
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(toString(s)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	v, err := fromString(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// String returns the canonical string representation of the state.
func (s State) String() string {
	return toString(s)
}
