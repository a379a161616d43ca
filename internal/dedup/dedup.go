// Package dedup is the Dedup Store (C5): a persistent set of
// (workflow, trigger-type, external-id) already processed, used to filter
// detector output before a job is enqueued.
package dedup

import (
	"context"
	"fmt"

	"github.com/dukex/integrail/internal/detectors"
	"github.com/dukex/integrail/internal/storage/postgres"
)

// Store filters detector candidates against already-processed external
// ids and records newly processed ones.
type Store struct {
	repo *postgres.ProcessedTriggerRepository
}

// New wraps a ProcessedTriggerRepository as a Store.
func New(repo *postgres.ProcessedTriggerRepository) *Store {
	return &Store{repo: repo}
}

// Filter removes candidates whose external id has already been recorded
// for (workflowID, triggerType).
func (s *Store) Filter(ctx context.Context, workflowID, triggerType string, candidates []detectors.Candidate) ([]detectors.Candidate, error) {
	seen, err := s.repo.ListExternalIDs(ctx, workflowID, triggerType)
	if err != nil {
		return nil, fmt.Errorf("dedup filter: %w", err)
	}

	unprocessed := make([]detectors.Candidate, 0, len(candidates))

	for _, c := range candidates {
		if _, already := seen[c.ExternalID]; !already {
			unprocessed = append(unprocessed, c)
		}
	}

	return unprocessed, nil
}

// Record marks externalID as processed. A duplicate insert (racing
// pollers or an at-least-once retry) is idempotent: the repository
// treats the resulting unique-violation as benign.
func (s *Store) Record(ctx context.Context, workflowID, triggerType, externalID string, metadata map[string]any) error {
	return s.repo.Record(ctx, workflowID, triggerType, externalID, metadata)
}
