package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukex/integrail/internal/domain"
)

// WorkflowRepository is the sole writer of workflow rows.
type WorkflowRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// ActiveWorkflow pairs a workflow with its owning user, as the scheduler's
// sweep query needs both.
type ActiveWorkflow struct {
	Workflow *domain.Workflow
	User     *domain.User
}

// ListActive returns all is_active workflows, eagerly joined with their
// owning user.
func (r *WorkflowRepository) ListActive(ctx context.Context) ([]ActiveWorkflow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT w.id, w.user_id, w.name, w.description, w.is_active, w.polling_interval_seconds,
		       w.start_step_id, w.last_run_at, w.steps, w.created_at, w.updated_at,
		       u.id, u.email, u.name, u.created_at
		FROM workflows w
		JOIN users u ON u.id = w.user_id
		WHERE w.is_active = TRUE
		ORDER BY w.created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("list active workflows: %w", err)
	}

	defer rows.Close()

	var out []ActiveWorkflow

	for rows.Next() {
		aw, err := scanActiveWorkflow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan active workflow: %w", err)
		}

		out = append(out, *aw)
	}

	return out, rows.Err()
}

func scanActiveWorkflow(rows *sql.Rows) (*ActiveWorkflow, error) {
	w := &domain.Workflow{}
	u := &domain.User{}

	var steps []byte

	err := rows.Scan(&w.ID, &w.UserID, &w.Name, &w.Description, &w.IsActive, &w.PollingIntervalSeconds,
		&w.StartStepID, &w.LastRunAt, &steps, &w.CreatedAt, &w.UpdatedAt,
		&u.ID, &u.Email, &u.Name, &u.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(steps, &w.Steps); err != nil {
		return nil, fmt.Errorf("decode steps: %w", err)
	}

	return &ActiveWorkflow{Workflow: w, User: u}, nil
}

// GetByID loads a single workflow by id.
func (r *WorkflowRepository) GetByID(ctx context.Context, id string) (*domain.Workflow, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, description, is_active, polling_interval_seconds,
		       start_step_id, last_run_at, steps, created_at, updated_at
		FROM workflows WHERE id = $1
	`, id)

	w := &domain.Workflow{}

	var steps []byte

	err := row.Scan(&w.ID, &w.UserID, &w.Name, &w.Description, &w.IsActive, &w.PollingIntervalSeconds,
		&w.StartStepID, &w.LastRunAt, &steps, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("get workflow: %w", err)
	}

	if err := json.Unmarshal(steps, &w.Steps); err != nil {
		return nil, fmt.Errorf("decode steps: %w", err)
	}

	return w, nil
}

// Create inserts a new workflow, deriving polling_interval_seconds from
// the trigger step's app at activation time.
func (r *WorkflowRepository) Create(ctx context.Context, w *domain.Workflow) error {
	trigger := w.TriggerStep()
	if trigger == nil {
		return errors.New("postgres: workflow has no trigger step")
	}

	w.PollingIntervalSeconds = int(domain.PollingInterval(trigger.Trigger.AppName).Seconds())
	w.IsActive = true

	steps, err := json.Marshal(w.Steps)
	if err != nil {
		return fmt.Errorf("encode steps: %w", err)
	}

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO workflows (user_id, name, description, is_active, polling_interval_seconds, start_step_id, steps)
		VALUES ($1, $2, $3, TRUE, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, w.UserID, w.Name, w.Description, w.PollingIntervalSeconds, w.StartStepID, steps)

	if err := row.Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return fmt.Errorf("create workflow: %w", err)
	}

	return nil
}

// SetActive explicitly activates or deactivates a workflow.
func (r *WorkflowRepository) SetActive(ctx context.Context, id string, active bool) error {
	_, err := r.db.ExecContext(ctx, "UPDATE workflows SET is_active = $1, updated_at = NOW() WHERE id = $2", active, id)
	if err != nil {
		return fmt.Errorf("set workflow active: %w", err)
	}

	return nil
}

// TouchLastRunAt does a targeted field write of last_run_at, leaving every
// other column (including relations) untouched.
func (r *WorkflowRepository) TouchLastRunAt(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, "UPDATE workflows SET last_run_at = $1 WHERE id = $2", at, id)
	if err != nil {
		return fmt.Errorf("touch workflow last_run_at: %w", err)
	}

	return nil
}

// Delete cascade-removes the workflow's runs and processed-trigger rows
// via foreign key ON DELETE CASCADE.
func (r *WorkflowRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM workflows WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete workflow: %w", err)
	}

	return nil
}
