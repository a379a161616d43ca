package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
)

// uniqueViolation is Postgres's SQLSTATE for a unique-constraint failure.
const uniqueViolation = "23505"

// ProcessedTriggerRepository is the Dedup Store's persistence layer, keyed
// on (workflow_id, trigger_type, external_id).
type ProcessedTriggerRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// ListExternalIDs returns every external id ever processed for
// (workflowID, triggerType), for the dedup filter to subtract from
// detector candidates.
func (r *ProcessedTriggerRepository) ListExternalIDs(ctx context.Context, workflowID, triggerType string) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT external_id FROM processed_triggers WHERE workflow_id = $1 AND trigger_type = $2",
		workflowID, triggerType)
	if err != nil {
		return nil, fmt.Errorf("list processed trigger ids: %w", err)
	}

	defer rows.Close()

	seen := make(map[string]struct{})

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan processed trigger id: %w", err)
		}

		seen[id] = struct{}{}
	}

	return seen, rows.Err()
}

// Record inserts a processed-trigger row. A unique-violation (racing
// pollers or an at-least-once retry) is treated as benign, not an error.
func (r *ProcessedTriggerRepository) Record(ctx context.Context, workflowID, triggerType, externalID string, metadata map[string]any) error {
	encoded, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("encode processed trigger metadata: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO processed_triggers (workflow_id, trigger_type, external_id, metadata)
		VALUES ($1, $2, $3, $4)
	`, workflowID, triggerType, externalID, encoded)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return nil
	}

	if err != nil {
		return fmt.Errorf("record processed trigger: %w", err)
	}

	return nil
}

// DeleteOlderThan removes processed-trigger rows whose processed_at is
// before the cutoff, used by the Reaper's retention sweep.
func (r *ProcessedTriggerRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM processed_triggers WHERE processed_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("reap processed triggers: %w", err)
	}

	return res.RowsAffected()
}
