// Package job defines the stateful representation of a command queued
// for execution by queuectl.
//
// A Job represents a shell command as stored and managed by the
// storage engine: it augments the command string with delivery state
// (jobstate.State), scheduling metadata (NextRunAt), and lease
// information (LockedBy, LockedAt).
//
// Job values are snapshots returned by storage operations (Acquire,
// GetJob, ListJobs) and passed back to other storage operations
// (Complete, Fail) to perform state transitions.
//
// Job is not intended to be constructed manually by user code except
// when building an enqueue request; its fields otherwise reflect
// authoritative state maintained by the storage engine.
package job
