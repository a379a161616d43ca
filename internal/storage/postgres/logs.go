package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukex/integrail/internal/domain"
)

// LogRepository is the Event Log's persistence layer. Rows are
// append-only: never updated, deleted only by the Reaper.
type LogRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// Create inserts a new LogEntry and populates its ID/CreatedAt.
func (r *LogRepository) Create(ctx context.Context, entry *domain.LogEntry) error {
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("encode log entry details: %w", err)
	}

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO log_entries (event_type, details, user_id, workflow_id, run_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, entry.EventType, details, entry.UserID, entry.WorkflowID, entry.RunID)

	if err := row.Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return fmt.Errorf("create log entry: %w", err)
	}

	return nil
}

const (
	defaultListCap = 100
	maxListCap     = 500
)

// ListFilter narrows ListByWorkflow/ListByRun results.
type ListFilter struct {
	EventType domain.EventType
	Limit     int
}

func (f ListFilter) limit() int {
	switch {
	case f.Limit <= 0:
		return defaultListCap
	case f.Limit > maxListCap:
		return maxListCap
	default:
		return f.Limit
	}
}

// ListByWorkflow returns the most recent log entries for a workflow,
// newest first.
func (r *LogRepository) ListByWorkflow(ctx context.Context, workflowID string, filter ListFilter) ([]domain.LogEntry, error) {
	return r.list(ctx, "workflow_id", workflowID, filter)
}

// ListByRun returns the most recent log entries for a run, newest first.
func (r *LogRepository) ListByRun(ctx context.Context, runID string, filter ListFilter) ([]domain.LogEntry, error) {
	return r.list(ctx, "run_id", runID, filter)
}

func (r *LogRepository) list(ctx context.Context, column, id string, filter ListFilter) ([]domain.LogEntry, error) {
	query := fmt.Sprintf(`
		SELECT id, event_type, details, user_id, workflow_id, run_id, created_at
		FROM log_entries WHERE %s = $1
	`, column)

	args := []any{id}

	if filter.EventType != "" {
		query += " AND event_type = $2"
		args = append(args, filter.EventType)
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT %d", filter.limit())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list log entries: %w", err)
	}

	defer rows.Close()

	var entries []domain.LogEntry

	for rows.Next() {
		var (
			entry   domain.LogEntry
			details []byte
		)

		if err := rows.Scan(&entry.ID, &entry.EventType, &details, &entry.UserID, &entry.WorkflowID, &entry.RunID, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}

		if err := json.Unmarshal(details, &entry.Details); err != nil {
			return nil, fmt.Errorf("decode log entry details: %w", err)
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// DeleteOlderThan removes log entries created before cutoff, used by the
// Reaper's retention sweep.
func (r *LogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM log_entries WHERE created_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("reap log entries: %w", err)
	}

	return res.RowsAffected()
}
