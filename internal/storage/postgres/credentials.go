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

// CredentialRepository is the sole writer of credential rows.
type CredentialRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// ErrNotFound is returned by Load when no credential row matches.
var ErrNotFound = errors.New("postgres: not found")

// LoadOption configures which columns Load projects.
type LoadOption func(*loadOpts)

type loadOpts struct {
	withSecrets bool
}

// WithSecrets requests access_token, refresh_token and metadata. Without
// it, Load omits those columns so callers that only need to check
// connectivity never touch token material.
func WithSecrets() LoadOption {
	return func(o *loadOpts) { o.withSecrets = true }
}

// Load fetches the credential for (userID, app). Returns ErrNotFound when
// absent.
func (r *CredentialRepository) Load(ctx context.Context, userID string, app domain.App, opts ...LoadOption) (*domain.Credential, error) {
	var o loadOpts

	for _, opt := range opts {
		opt(&o)
	}

	cols := "id, user_id, app, expires_at, created_at, updated_at"
	if o.withSecrets {
		cols = "id, user_id, app, access_token, refresh_token, expires_at, metadata, created_at, updated_at"
	}

	query := fmt.Sprintf("SELECT %s FROM credentials WHERE user_id = $1 AND app = $2", cols)

	row := r.db.QueryRowContext(ctx, query, userID, app)

	cred := &domain.Credential{}

	var metadata []byte

	var err error
	if o.withSecrets {
		err = row.Scan(&cred.ID, &cred.UserID, &cred.App, &cred.AccessToken, &cred.RefreshToken,
			&cred.ExpiresAt, &metadata, &cred.CreatedAt, &cred.UpdatedAt)
	} else {
		err = row.Scan(&cred.ID, &cred.UserID, &cred.App, &cred.ExpiresAt, &cred.CreatedAt, &cred.UpdatedAt)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("load credential: %w", err)
	}

	if metadata != nil {
		if err := json.Unmarshal(metadata, &cred.Metadata); err != nil {
			return nil, fmt.Errorf("decode credential metadata: %w", err)
		}
	}

	return cred, nil
}

// Save upserts the credential for (userID, app).
func (r *CredentialRepository) Save(ctx context.Context, cred *domain.Credential) error {
	metadata, err := json.Marshal(cred.Metadata)
	if err != nil {
		return fmt.Errorf("encode credential metadata: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO credentials (user_id, app, access_token, refresh_token, expires_at, metadata, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (user_id, app) DO UPDATE SET
			access_token  = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			expires_at    = EXCLUDED.expires_at,
			metadata      = EXCLUDED.metadata,
			updated_at    = NOW()
	`, cred.UserID, cred.App, cred.AccessToken, cred.RefreshToken, cred.ExpiresAt, metadata)
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}

	return nil
}

// UpdateAccess is a targeted single-row update of just the access token
// and its expiry, used after the Dispatcher refreshes a token in place.
func (r *CredentialRepository) UpdateAccess(ctx context.Context, id string, accessToken string, expiresAt *time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE credentials SET access_token = $1, expires_at = $2, updated_at = NOW() WHERE id = $3",
		accessToken, expiresAt, id)
	if err != nil {
		return fmt.Errorf("update credential access token: %w", err)
	}

	return nil
}
