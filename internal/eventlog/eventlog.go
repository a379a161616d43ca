// Package eventlog is the Event Log (C10): an append-only record of
// engine activity, synchronously persisted and fanned out onto the event
// bus for async subscribers.
package eventlog

import (
	"context"
	"fmt"

	"github.com/dukex/integrail/internal/domain"
	"github.com/dukex/integrail/internal/eventbus"
	"github.com/dukex/integrail/internal/storage/postgres"
)

// Log creates LogEntry rows and publishes them onto the event bus.
type Log struct {
	repo *postgres.LogRepository
	bus  *eventbus.Bus
}

// New wraps a LogRepository and event Bus as a Log.
func New(repo *postgres.LogRepository, bus *eventbus.Bus) *Log {
	return &Log{repo: repo, bus: bus}
}

// RefOption attaches an optional user/workflow/run reference to a
// created entry.
type RefOption func(*domain.LogEntry)

// WithUser attaches a user reference.
func WithUser(userID string) RefOption {
	return func(e *domain.LogEntry) { e.UserID = &userID }
}

// WithWorkflow attaches a workflow reference.
func WithWorkflow(workflowID string) RefOption {
	return func(e *domain.LogEntry) { e.WorkflowID = &workflowID }
}

// WithRun attaches a run reference.
func WithRun(runID string) RefOption {
	return func(e *domain.LogEntry) { e.RunID = &runID }
}

// Create persists a new LogEntry and publishes it onto the event bus. Bus
// publish failures are logged-equivalent (returned) but do not unwind the
// persisted row — the row is the source of truth.
func (l *Log) Create(ctx context.Context, eventType domain.EventType, details map[string]any, opts ...RefOption) error {
	entry := &domain.LogEntry{EventType: eventType, Details: details}

	for _, opt := range opts {
		opt(entry)
	}

	if err := l.repo.Create(ctx, entry); err != nil {
		return fmt.Errorf("create log entry: %w", err)
	}

	if l.bus == nil {
		return nil
	}

	return l.bus.Publish(ctx, eventbus.Event{Type: eventType, Payload: details})
}

// ByWorkflow retrieves the most recent log entries for a workflow.
func (l *Log) ByWorkflow(ctx context.Context, workflowID string, filter postgres.ListFilter) ([]domain.LogEntry, error) {
	return l.repo.ListByWorkflow(ctx, workflowID, filter)
}

// ByRun retrieves the most recent log entries for a run.
func (l *Log) ByRun(ctx context.Context, runID string, filter postgres.ListFilter) ([]domain.LogEntry, error) {
	return l.repo.ListByRun(ctx, runID, filter)
}
