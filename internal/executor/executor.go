// Package executor is the Executor (C8): a bounded worker pool that
// drains the Job Queue, runs each job's workflow through the
// interpreter, and records the outcome as a WorkflowRun plus event-log
// entries. Grounded on the teacher's internal/application worker
// manager's pull-run-ack loop shape, generalized to the queue.Queue
// abstraction and the registry-backed interpreter.
package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dukex/integrail/internal/dedup"
	"github.com/dukex/integrail/internal/domain"
	"github.com/dukex/integrail/internal/eventlog"
	"github.com/dukex/integrail/internal/interpreter"
	"github.com/dukex/integrail/internal/queue"
	"github.com/dukex/integrail/internal/storage/postgres"
)

// DefaultConcurrency is the default worker pool size.
const DefaultConcurrency = 5

// TerminalFailurePolicy decides what happens to the processed-trigger
// marker once a job exhausts its retry budget (spec §9's open question,
// surfaced as a knob rather than guessed).
type TerminalFailurePolicy string

const (
	// DropOnTerminalFailure leaves the processed-trigger row unwritten, so
	// the event can resurface as "unprocessed" on a later poll — at the
	// cost of the scheduler's newest-first pick possibly starving it
	// forever if newer events keep arriving (spec §9). This is the
	// default, matching §4.8's stated default behavior.
	DropOnTerminalFailure TerminalFailurePolicy = "drop"

	// DeadLetterOnTerminalFailure records the processed-trigger row even
	// though the run never succeeded, marking the event "seen" so it
	// stops resurfacing and the run fails loud instead of blocking
	// forward progress.
	DeadLetterOnTerminalFailure TerminalFailurePolicy = "dead_letter"
)

// Executor runs queued jobs with a bounded pool of workers.
type Executor struct {
	jobs        queue.Queue
	workflows   *postgres.WorkflowRepository
	runs        *postgres.RunRepository
	events      *eventlog.Log
	dedup       *dedup.Store
	interpreter *interpreter.Interpreter
	logger      *slog.Logger

	concurrency    int
	terminalPolicy TerminalFailurePolicy
}

// New wires an Executor from its dependencies, defaulting to
// DefaultConcurrency workers and DropOnTerminalFailure.
func New(
	jobs queue.Queue,
	workflows *postgres.WorkflowRepository,
	runs *postgres.RunRepository,
	events *eventlog.Log,
	dedupStore *dedup.Store,
	interp *interpreter.Interpreter,
	logger *slog.Logger,
) *Executor {
	return &Executor{
		jobs:           jobs,
		workflows:      workflows,
		runs:           runs,
		events:         events,
		dedup:          dedupStore,
		interpreter:    interp,
		logger:         logger.With("module", "executor"),
		concurrency:    DefaultConcurrency,
		terminalPolicy: DropOnTerminalFailure,
	}
}

// WithConcurrency overrides the worker pool size.
func (e *Executor) WithConcurrency(n int) *Executor {
	if n > 0 {
		e.concurrency = n
	}

	return e
}

// WithTerminalFailurePolicy overrides the default terminal-failure
// handling of the processed-trigger marker.
func (e *Executor) WithTerminalFailurePolicy(p TerminalFailurePolicy) *Executor {
	if p != "" {
		e.terminalPolicy = p
	}

	return e
}

// Run starts the worker pool and blocks until ctx is canceled.
func (e *Executor) Run(ctx context.Context) {
	var wg sync.WaitGroup

	for i := 0; i < e.concurrency; i++ {
		wg.Add(1)

		go func(workerID int) {
			defer wg.Done()

			e.loop(ctx, workerID)
		}(i)
	}

	wg.Wait()
}

func (e *Executor) loop(ctx context.Context, workerID int) {
	logger := e.logger.With("worker", workerID)

	for {
		job, err := e.jobs.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}

			logger.ErrorContext(ctx, "dequeue failed", "error", err)

			continue
		}

		e.process(ctx, logger, *job)
	}
}

func (e *Executor) process(ctx context.Context, logger *slog.Logger, job queue.Job) {
	job.AttemptsMade++

	workflow, err := e.workflows.GetByID(ctx, job.WorkflowID)
	if err != nil {
		logger.ErrorContext(ctx, "load workflow failed", "workflow_id", job.WorkflowID, "error", err)
		e.retryOrDrop(ctx, logger, job, err)

		return
	}

	run := &domain.WorkflowRun{
		WorkflowID:  workflow.ID,
		TriggerData: job.TriggerData,
		RetryCount:  job.AttemptsMade - 1,
		StartedAt:   time.Now().UTC(),
	}

	if err := e.runs.Create(ctx, run); err != nil {
		logger.ErrorContext(ctx, "create run failed", "workflow_id", workflow.ID, "error", err)
		e.retryOrDrop(ctx, logger, job, err)

		return
	}

	_ = e.events.Create(ctx, domain.EventWorkflowExecutionStarted,
		map[string]any{"job_id": job.ID}, eventlog.WithWorkflow(workflow.ID), eventlog.WithRun(run.ID), eventlog.WithUser(job.UserID))

	// Per spec §4.8 step 5: unwrap trigger_data.data when present
	// (scheduler-enqueued jobs nest the payload there); otherwise pass
	// trigger_data directly, matching the admin test-run call site's
	// directly-constructed payload contract.
	triggerData, ok := job.TriggerData["data"].(map[string]any)
	if !ok {
		triggerData = job.TriggerData
	}

	execLog, execErr := e.interpreter.Execute(ctx, job.UserID, workflow, triggerData, run.ID)

	finishedAt := time.Now().UTC()

	if execErr != nil {
		message := execErr.Error()

		if err := e.runs.Fail(ctx, run.ID, message, job.AttemptsMade, finishedAt); err != nil {
			logger.ErrorContext(ctx, "mark run failed failed", "run_id", run.ID, "error", err)
		}

		_ = e.events.Create(ctx, domain.EventWorkflowExecutionFailed,
			map[string]any{"error": message, "terminal": job.AttemptsMade >= queue.MaxAttempts},
			eventlog.WithWorkflow(workflow.ID), eventlog.WithRun(run.ID), eventlog.WithUser(job.UserID))

		e.retryOrDrop(ctx, logger, job, execErr)

		return
	}

	if err := e.runs.Complete(ctx, run.ID, execLog, finishedAt); err != nil {
		logger.ErrorContext(ctx, "mark run complete failed", "run_id", run.ID, "error", err)
	}

	if err := e.workflows.TouchLastRunAt(ctx, workflow.ID, finishedAt); err != nil {
		logger.ErrorContext(ctx, "touch last_run_at failed", "workflow_id", workflow.ID, "error", err)
	}

	e.recordProcessed(ctx, logger, job)

	_ = e.events.Create(ctx, domain.EventWorkflowExecutionCompleted,
		map[string]any{"steps": len(execLog)}, eventlog.WithWorkflow(workflow.ID), eventlog.WithRun(run.ID), eventlog.WithUser(job.UserID))

	if err := e.jobs.Ack(ctx, job); err != nil {
		logger.ErrorContext(ctx, "ack job failed", "job_id", job.ID, "error", err)
	}
}

// recordProcessed inserts the processed-trigger row for job's external
// event, per spec §4.8 step 6. A unique-violation (a racing duplicate
// execution already recorded it) is treated as benign by the dedup
// store itself.
func (e *Executor) recordProcessed(ctx context.Context, logger *slog.Logger, job queue.Job) {
	triggerType, _ := job.TriggerData["trigger_id"].(string)
	externalID, _ := job.TriggerData["external_id"].(string)

	if triggerType == "" || externalID == "" {
		return
	}

	if err := e.dedup.Record(ctx, job.WorkflowID, triggerType, externalID, nil); err != nil {
		logger.ErrorContext(ctx, "dedup record failed", "workflow_id", job.WorkflowID, "error", err)
	}
}

func (e *Executor) retryOrDrop(ctx context.Context, logger *slog.Logger, job queue.Job, cause error) {
	if err := e.jobs.Retry(ctx, job); err != nil {
		logger.ErrorContext(ctx, "retry job failed", "job_id", job.ID, "cause", cause, "error", err)

		return
	}

	if job.AttemptsMade < queue.MaxAttempts {
		return
	}

	logger.WarnContext(ctx, "job exhausted retries, moved to dead set",
		"job_id", job.ID, "workflow_id", job.WorkflowID, "cause", fmt.Sprint(cause), "terminal_policy", e.terminalPolicy)

	if e.terminalPolicy == DeadLetterOnTerminalFailure {
		e.recordProcessed(ctx, logger, job)
	}
}
