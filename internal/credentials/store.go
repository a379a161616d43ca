// Package credentials is the Credential Store (C1): the only writer of
// token rows, fronting internal/storage/postgres with the NotConnected
// semantics the rest of the engine expects.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dukex/integrail/internal/domain"
	"github.com/dukex/integrail/internal/errkind"
	"github.com/dukex/integrail/internal/storage/postgres"
)

// Store loads, saves, and refreshes per-(user, app) credentials.
type Store struct {
	repo *postgres.CredentialRepository
}

// New wraps a CredentialRepository as a Store.
func New(repo *postgres.CredentialRepository) *Store {
	return &Store{repo: repo}
}

// Load returns the credential for (userID, app) including secrets. Fails
// with errkind.NotConnected when absent.
func (s *Store) Load(ctx context.Context, userID string, app domain.App) (*domain.Credential, error) {
	cred, err := s.repo.Load(ctx, userID, app, postgres.WithSecrets())
	if errors.Is(err, postgres.ErrNotFound) {
		return nil, errkind.New(errkind.NotConnected, fmt.Errorf("no %s credential for user %s", app, userID))
	}

	if err != nil {
		return nil, fmt.Errorf("load credential: %w", err)
	}

	return cred, nil
}

// Connected reports whether a credential row exists, without touching
// sensitive columns.
func (s *Store) Connected(ctx context.Context, userID string, app domain.App) (bool, error) {
	_, err := s.repo.Load(ctx, userID, app)
	if errors.Is(err, postgres.ErrNotFound) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("check credential: %w", err)
	}

	return true, nil
}

// Save upserts the credential for (userID, app).
func (s *Store) Save(ctx context.Context, cred *domain.Credential) error {
	return s.repo.Save(ctx, cred)
}

// UpdateAccess records a refreshed access token in place.
func (s *Store) UpdateAccess(ctx context.Context, credentialID, accessToken string, expiresAt *time.Time) error {
	return s.repo.UpdateAccess(ctx, credentialID, accessToken, expiresAt)
}
