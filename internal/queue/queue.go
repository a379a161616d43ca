// Package queue is the Job Queue (C7): a durable FIFO work pool keyed by
// workflow, with a per-job retry policy that decouples the Scheduler from
// the Executor.
package queue

import (
	"context"
	"time"
)

// MaxAttempts is the fixed retry budget from spec.md §4.7: a job is
// terminal after 3 attempts.
const MaxAttempts = 3

// Job is one unit of work: execute a workflow for a specific triggering
// event.
type Job struct {
	ID           string         `json:"id"`
	WorkflowID   string         `json:"workflow_id"`
	UserID       string         `json:"user_id"`
	TriggerData  map[string]any `json:"trigger_data"`
	AttemptsMade int            `json:"attempts_made"`
}

// Backoff returns the exponential(base=1s) delay 2^attemptsMade seconds:
// 1s, 2s, 4s for 0, 1, 2. Both queue implementations pass AttemptsMade-1,
// so the first retry after one failure waits 1s.
func Backoff(attemptsMade int) time.Duration {
	return time.Duration(1<<attemptsMade) * time.Second
}

// Queue is shared infrastructure; workers pull from it. At-least-once
// delivery is expected and is made safe by the Dedup Store.
type Queue interface {
	// Enqueue appends a new job to the waiting list.
	Enqueue(ctx context.Context, job Job) error

	// Dequeue blocks until a job is available or ctx is done.
	Dequeue(ctx context.Context) (*Job, error)

	// Ack evicts a completed job.
	Ack(ctx context.Context, job Job) error

	// Retry schedules job for retry with exponential backoff, or drops it
	// as terminal once AttemptsMade reaches MaxAttempts.
	Retry(ctx context.Context, job Job) error

	// RemoveJobsFor scans waiting, active and delayed jobs and drops every
	// one belonging to workflowID (used when a workflow is deactivated).
	RemoveJobsFor(ctx context.Context, workflowID string) error

	// Close releases the queue's underlying resources.
	Close() error
}
