// Package scheduler is the Scheduler (C6): a periodic sweep over active
// workflows that fires each one's trigger detector once its polling
// interval has elapsed, dedups the detector's candidates, and enqueues
// the newest unprocessed one for execution. Scheduling is grounded on
// the teacher's pkg/triggers/schedule.Trigger, which wraps
// robfig/cron/v3; unlike that trigger's per-workflow cron expression,
// this sweep runs on one fixed cadence and tests each workflow's own
// interval against its LastRunAt.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dukex/integrail/internal/dedup"
	"github.com/dukex/integrail/internal/detectors"
	"github.com/dukex/integrail/internal/domain"
	"github.com/dukex/integrail/internal/eventlog"
	"github.com/dukex/integrail/internal/queue"
	"github.com/dukex/integrail/internal/storage/postgres"
)

// defaultSweepInterval is the fixed cron cadence the sweep runs on when
// config.Config carries no override; it must divide evenly into the
// shortest per-app polling interval (Slack's 30s) so no workflow's due
// check is missed by more than the sweep's own period.
const defaultSweepInterval = 10 * time.Second

// Scheduler sweeps active workflows and enqueues due trigger events.
type Scheduler struct {
	workflows *postgres.WorkflowRepository
	dedup     *dedup.Store
	events    *eventlog.Log
	jobs      queue.Queue
	caller    detectors.Caller
	logger    *slog.Logger

	sweepInterval time.Duration
	cron          *cron.Cron
}

// New wires a Scheduler from its dependencies, defaulting to
// defaultSweepInterval; override with WithSweepInterval.
func New(
	workflows *postgres.WorkflowRepository,
	dedupStore *dedup.Store,
	events *eventlog.Log,
	jobs queue.Queue,
	caller detectors.Caller,
	logger *slog.Logger,
) *Scheduler {
	return &Scheduler{
		workflows:     workflows,
		dedup:         dedupStore,
		events:        events,
		jobs:          jobs,
		caller:        caller,
		logger:        logger.With("module", "scheduler"),
		sweepInterval: defaultSweepInterval,
	}
}

// WithSweepInterval overrides the sweep cadence from config.Config's
// configured tick.
func (s *Scheduler) WithSweepInterval(d time.Duration) *Scheduler {
	if d > 0 {
		s.sweepInterval = d
	}

	return s
}

// Start schedules the sweep on its configured interval and runs one
// pass immediately. A tick that fires while the previous sweep is still
// running is skipped, so two sweeps never run concurrently.
func (s *Scheduler) Start(ctx context.Context) error {
	s.sweep(ctx)

	s.cron = cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)))

	spec := fmt.Sprintf("@every %s", s.sweepInterval)

	if _, err := s.cron.AddFunc(spec, func() { s.sweep(ctx) }); err != nil {
		return fmt.Errorf("schedule sweep: %w", err)
	}

	s.cron.Start()

	return nil
}

// Stop halts the sweep.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) sweep(ctx context.Context) {
	active, err := s.workflows.ListActive(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "list active workflows failed", "error", err)

		return
	}

	now := time.Now().UTC()

	for _, aw := range active {
		if !due(aw.Workflow, now) {
			continue
		}

		s.checkWorkflow(ctx, aw)
	}
}

func due(w *domain.Workflow, now time.Time) bool {
	if w.PollingIntervalSeconds <= 0 {
		return false
	}

	if w.LastRunAt == nil {
		return true
	}

	return now.Sub(*w.LastRunAt) >= time.Duration(w.PollingIntervalSeconds)*time.Second
}

func (s *Scheduler) checkWorkflow(ctx context.Context, aw postgres.ActiveWorkflow) {
	w := aw.Workflow
	trigger := w.TriggerStep()

	if trigger == nil || trigger.Trigger == nil {
		return
	}

	triggerType := trigger.Trigger.TriggerID

	detector, ok := detectors.Registry[triggerType]
	if !ok {
		s.logger.WarnContext(ctx, "unknown trigger type", "workflow_id", w.ID, "trigger_type", triggerType)

		return
	}

	_ = s.events.Create(ctx, domain.EventTriggerChecked,
		map[string]any{"trigger_type": triggerType}, eventlog.WithWorkflow(w.ID), eventlog.WithUser(aw.User.ID))

	candidates, err := detector.Fetch(ctx, s.caller, aw.User.ID, trigger.Trigger.Config)
	if err != nil {
		s.logger.ErrorContext(ctx, "detector fetch failed", "workflow_id", w.ID, "error", err)

		return
	}

	// Per spec §4.6 step 4, last_run_at advances whenever the detector
	// ran and produced no unprocessed candidate — an empty candidate
	// list is that case too, not just a non-empty one the dedup filter
	// exhausts. Without this the idle path never advances last_run_at
	// and due() keeps firing every sweep tick instead of every interval.
	if len(candidates) == 0 {
		if err := s.workflows.TouchLastRunAt(ctx, w.ID, time.Now().UTC()); err != nil {
			s.logger.ErrorContext(ctx, "touch last_run_at failed", "workflow_id", w.ID, "error", err)
		}

		return
	}

	unprocessed, err := s.dedup.Filter(ctx, w.ID, triggerType, candidates)
	if err != nil {
		s.logger.ErrorContext(ctx, "dedup filter failed", "workflow_id", w.ID, "error", err)

		return
	}

	if err := s.workflows.TouchLastRunAt(ctx, w.ID, time.Now().UTC()); err != nil {
		s.logger.ErrorContext(ctx, "touch last_run_at failed", "workflow_id", w.ID, "error", err)
	}

	if len(unprocessed) == 0 {
		return
	}

	candidate := unprocessed[0]

	_ = s.events.Create(ctx, domain.EventTriggerFired,
		map[string]any{"trigger_type": triggerType, "external_id": candidate.ExternalID},
		eventlog.WithWorkflow(w.ID), eventlog.WithUser(aw.User.ID))

	// The processed-trigger row is recorded by the Executor on a
	// successful run (spec §4.5/§4.8), not here — recording it at enqueue
	// time would mark the event "processed" before it actually ran,
	// defeating retry-on-failure.
	job := queue.Job{
		WorkflowID: w.ID,
		UserID:     aw.User.ID,
		TriggerData: map[string]any{
			// Nested under "trigger" per spec §4.4(b): templates and
			// conditions reference the payload as "{{trigger.field}}".
			"data":        map[string]any{"trigger": candidate.Data},
			"trigger_id":  triggerType,
			"external_id": candidate.ExternalID,
		},
	}

	if err := s.jobs.Enqueue(ctx, job); err != nil {
		s.logger.ErrorContext(ctx, "enqueue job failed", "workflow_id", w.ID, "error", err)
	}
}
