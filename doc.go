// Package queuectl provides a durable, multi-worker job queue backed
// by an embedded relational store. Jobs describe shell commands to
// execute; the queue delivers each ready job to exactly one worker,
// retries failures with exponential backoff, and quarantines
// repeatedly failing jobs in a dead letter queue (DLQ) for manual
// disposition.
//
// # Overview
//
// queuectl separates the durable dispatch engine (internal/storage)
// from the process-level orchestration in this package: Worker polls
// storage for ready jobs and executes them; Manager supervises a fleet
// of Worker processes and performs the startup abandoned-lease sweep.
//
// This package defines a set of narrow interfaces (Enqueuer,
// Dispatcher, Observer, DLQ), all implemented by internal/storage.Store,
// the only implementation this module ships. Worker acquires and
// records jobs through a Dispatcher, but uses *internal/storage.Store
// directly for heartbeats and worker registration; Manager uses
// *internal/storage.Store directly for its recovery sweep.
//
// # Delivery Semantics
//
// queuectl provides at-least-once execution: a job may run more than
// once if a worker crashes mid-job before its lease is reclaimed.
// Commands are therefore expected to be safe to retry.
//
// # Lease Model
//
// When a job is acquired, it transitions from Pending (or Failed) to
// Processing and is attributed to a worker identity until it completes
// or fails. If a worker crashes while holding a job, the lease is
// reclaimed once its age exceeds the configured abandoned threshold,
// via Manager's startup recovery sweep.
//
// # State Machine
//
// Jobs follow this lifecycle (see package job and internal/jobstate):
//
//	Pending    -> Processing
//	Processing -> Completed
//	Processing -> Failed   (retries remain)
//	Processing -> Dead     (retries exhausted)
//	Failed     -> Processing
//	Processing -> Pending  (lease reclaimed by recovery sweep)
//	Dead       -> Pending  (operator requeue via the DLQ)
//
// Completed and Dead are terminal; Dead jobs persist until explicitly
// requeued or deleted by an operator.
//
// # Retry Policy
//
// On command failure, the job is rescheduled with a delay of
// backoff_base^attempts seconds if its retry budget is not exhausted,
// or transitioned to Dead otherwise. There is no jitter: the delay is
// deterministic given the configured base and attempt count.
//
// # Concurrency Model
//
// Workers are independent OS processes, each single-threaded
// internally. All coordination passes through internal/storage's
// atomic Acquire operation; workers never communicate directly.
//
// # Summary
//
// queuectl provides a minimal yet structured foundation for running
// background shell-command jobs with explicit lifecycle control,
// retry semantics, and a SQLite storage engine.
package queuectl
