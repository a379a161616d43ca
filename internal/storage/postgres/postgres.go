package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
)

// Store is the PostgreSQL-backed storage layer, composing one repository
// per aggregate over a shared connection pool.
type Store struct {
	db *sql.DB

	Credentials       *CredentialRepository
	Workflows         *WorkflowRepository
	Runs              *RunRepository
	ProcessedTriggers *ProcessedTriggerRepository
	Logs              *LogRepository
}

// Open connects to databaseURL, runs the schema bootstrap, and returns a
// ready Store.
func Open(ctx context.Context, logger *slog.Logger, databaseURL string) (*Store, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := newMigrationManager(logger, db).run(ctx); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{
		db:                db,
		Credentials:       &CredentialRepository{db: db, logger: logger},
		Workflows:         &WorkflowRepository{db: db, logger: logger},
		Runs:              &RunRepository{db: db, logger: logger},
		ProcessedTriggers: &ProcessedTriggerRepository{db: db, logger: logger},
		Logs:              &LogRepository{db: db, logger: logger},
	}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// HealthCheck verifies the database connection is reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}

	return nil
}
