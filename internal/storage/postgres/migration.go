// Package postgres is the lib/pq-backed storage layer: connection setup,
// a lightweight in-process schema bootstrap, and one repository per
// domain aggregate. This is schema bootstrap, not migration tooling — it
// owns exactly the tables this engine needs and carries no rollback or
// versioned-diff machinery, unlike golang-migrate-style tools.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

const currentSchemaVersion = 1

// migrationManager applies the fixed set of schema statements needed to
// bring a fresh or older database up to currentSchemaVersion, tracked in
// a schema_migrations table. Grounded on the teacher's
// pkg/persistence/sqlbase.MigrationManager.
type migrationManager struct {
	db         *sql.DB
	logger     *slog.Logger
	migrations map[int]string
}

func newMigrationManager(logger *slog.Logger, db *sql.DB) *migrationManager {
	return &migrationManager{db: db, logger: logger, migrations: migrations()}
}

func (m *migrationManager) run(ctx context.Context) error {
	if err := m.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	current, err := m.currentVersion(ctx)
	if err != nil {
		return fmt.Errorf("read current schema version: %w", err)
	}

	m.logger.InfoContext(ctx, "current schema version", "version", current)

	if current >= currentSchemaVersion {
		return nil
	}

	if err := m.apply(ctx, current); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	m.logger.InfoContext(ctx, "schema migrations complete", "version", currentSchemaVersion)

	return nil
}

func (m *migrationManager) createMigrationsTable(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)

	return err
}

func (m *migrationManager) currentVersion(ctx context.Context) (int, error) {
	var version int

	err := m.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)

	return version, err
}

func (m *migrationManager) apply(ctx context.Context, fromVersion int) error {
	for version, stmt := range m.migrations {
		if version <= fromVersion {
			continue
		}

		m.logger.InfoContext(ctx, "applying migration", "version", version)

		tx, err := m.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx for migration %d: %w", version, err)
		}

		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()

			return fmt.Errorf("execute migration %d: %w", version, err)
		}

		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", version); err != nil {
			_ = tx.Rollback()

			return fmt.Errorf("record migration %d: %w", version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", version, err)
		}
	}

	return nil
}

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE IF NOT EXISTS users (
				id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				email      TEXT NOT NULL UNIQUE,
				name       TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS credentials (
				id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				user_id       UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				app           TEXT NOT NULL,
				access_token  TEXT NOT NULL,
				refresh_token TEXT NOT NULL DEFAULT '',
				expires_at    TIMESTAMPTZ,
				metadata      JSONB NOT NULL DEFAULT '{}',
				created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				UNIQUE (user_id, app)
			);

			CREATE TABLE IF NOT EXISTS workflows (
				id                       UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				user_id                  UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				name                     TEXT NOT NULL,
				description              TEXT NOT NULL DEFAULT '',
				is_active                BOOLEAN NOT NULL DEFAULT TRUE,
				polling_interval_seconds INTEGER NOT NULL DEFAULT 60,
				start_step_id            TEXT NOT NULL DEFAULT '',
				last_run_at              TIMESTAMPTZ,
				steps                    JSONB NOT NULL,
				created_at               TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at               TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				UNIQUE (user_id, name)
			);

			CREATE TABLE IF NOT EXISTS processed_triggers (
				id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				workflow_id  UUID NOT NULL REFERENCES workflows(id) ON DELETE CASCADE,
				trigger_type TEXT NOT NULL,
				external_id  TEXT NOT NULL,
				metadata     JSONB NOT NULL DEFAULT '{}',
				processed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				UNIQUE (workflow_id, trigger_type, external_id)
			);

			CREATE TABLE IF NOT EXISTS workflow_runs (
				id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				workflow_id   UUID NOT NULL REFERENCES workflows(id) ON DELETE CASCADE,
				status        TEXT NOT NULL,
				trigger_data  JSONB NOT NULL DEFAULT '{}',
				execution_log JSONB NOT NULL DEFAULT '[]',
				retry_count   INTEGER NOT NULL DEFAULT 0,
				error         TEXT,
				started_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				finished_at   TIMESTAMPTZ
			);

			CREATE TABLE IF NOT EXISTS log_entries (
				id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				event_type  TEXT NOT NULL,
				details     JSONB NOT NULL DEFAULT '{}',
				user_id     UUID REFERENCES users(id) ON DELETE SET NULL,
				workflow_id UUID REFERENCES workflows(id) ON DELETE SET NULL,
				run_id      UUID REFERENCES workflow_runs(id) ON DELETE SET NULL,
				created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_log_entries_workflow ON log_entries(workflow_id, created_at DESC);
			CREATE INDEX IF NOT EXISTS idx_log_entries_run ON log_entries(run_id, created_at DESC);
			CREATE INDEX IF NOT EXISTS idx_workflows_active ON workflows(is_active);
		`,
	}
}
