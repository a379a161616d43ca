// Package reaper is the Reaper (C11): a cron-scheduled sweep that deletes
// processed-trigger rows and log entries past their retention horizon.
// Scheduling is grounded on the teacher's pkg/triggers/schedule.Trigger,
// which wraps robfig/cron/v3.
package reaper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dukex/integrail/internal/storage/postgres"
)

// DefaultRetention is the retention horizon from spec.md §3/§4.11.
const DefaultRetention = 30 * 24 * time.Hour

// everyDaySpec runs the sweep once per 24h, per spec.md §4.11.
const everyDaySpec = "@every 24h"

// Reaper deletes processed-trigger rows and log entries older than
// Retention.
type Reaper struct {
	store     *postgres.Store
	logger    *slog.Logger
	retention time.Duration

	cron *cron.Cron
}

// New wires a Reaper with DefaultRetention. Use WithRetention to override.
func New(store *postgres.Store, logger *slog.Logger) *Reaper {
	return &Reaper{store: store, logger: logger.With("module", "reaper"), retention: DefaultRetention}
}

// WithRetention overrides the default 30-day retention horizon.
func (r *Reaper) WithRetention(d time.Duration) *Reaper {
	r.retention = d

	return r
}

// Start schedules the sweep to run once per 24h and runs it once
// immediately.
func (r *Reaper) Start(ctx context.Context) error {
	r.sweep(ctx)

	r.cron = cron.New()

	if _, err := r.cron.AddFunc(everyDaySpec, func() { r.sweep(ctx) }); err != nil {
		return fmt.Errorf("schedule reaper sweep: %w", err)
	}

	r.cron.Start()

	return nil
}

// Stop halts the scheduled sweep.
func (r *Reaper) Stop() {
	if r.cron != nil {
		r.cron.Stop()
	}
}

func (r *Reaper) sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-r.retention)

	triggersDeleted, err := r.store.ProcessedTriggers.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		r.logger.ErrorContext(ctx, "reap processed triggers failed", "error", err)
	}

	logsDeleted, err := r.store.Logs.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		r.logger.ErrorContext(ctx, "reap log entries failed", "error", err)
	}

	r.logger.InfoContext(ctx, "reaper sweep complete",
		"processed_triggers_deleted", triggersDeleted,
		"log_entries_deleted", logsDeleted,
		"cutoff", cutoff)
}
