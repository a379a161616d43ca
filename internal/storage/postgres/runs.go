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

// RunRepository is the sole writer of workflow_run rows. Rows become
// immutable once status != running.
type RunRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// Create inserts a new running WorkflowRun.
func (r *RunRepository) Create(ctx context.Context, run *domain.WorkflowRun) error {
	triggerData, err := json.Marshal(run.TriggerData)
	if err != nil {
		return fmt.Errorf("encode trigger_data: %w", err)
	}

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO workflow_runs (workflow_id, status, trigger_data, retry_count, started_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, run.WorkflowID, domain.RunRunning, triggerData, run.RetryCount, run.StartedAt)

	if err := row.Scan(&run.ID); err != nil {
		return fmt.Errorf("create workflow run: %w", err)
	}

	return nil
}

// Complete marks a run successful, recording the interpreter's execution
// log.
func (r *RunRepository) Complete(ctx context.Context, id string, log []domain.LogEntryDetail, finishedAt time.Time) error {
	encoded, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("encode execution_log: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE workflow_runs SET status = $1, execution_log = $2, finished_at = $3 WHERE id = $4
	`, domain.RunSuccess, encoded, finishedAt, id)
	if err != nil {
		return fmt.Errorf("complete workflow run: %w", err)
	}

	return nil
}

// Fail marks a run failed and bumps retry_count to attemptsMade+1.
func (r *RunRepository) Fail(ctx context.Context, id string, message string, retryCount int, finishedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE workflow_runs SET status = $1, error = $2, retry_count = $3, finished_at = $4 WHERE id = $5
	`, domain.RunFailed, message, retryCount, finishedAt, id)
	if err != nil {
		return fmt.Errorf("fail workflow run: %w", err)
	}

	return nil
}
