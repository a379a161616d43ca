package dispatcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dukex/integrail/internal/domain"
)

// OAuthClient holds the client id/secret and token endpoint for one app's
// OAuth2 refresh flow.
type OAuthClient struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
}

// OAuthClients maps each app to its OAuth client configuration.
type OAuthClients map[domain.App]OAuthClient

type refreshResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// refresh exchanges a refresh token for a new access token per RFC 6749
// §6, returning the new access token and its absolute expiry.
func refresh(ctx context.Context, httpClient *http.Client, client OAuthClient, refreshToken string) (string, *time.Time, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
		"client_id":     {client.ClientID},
		"client_secret": {client.ClientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, client.TokenURL, bytes.NewReader([]byte(form.Encode())))
	if err != nil {
		return "", nil, fmt.Errorf("build refresh request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("refresh token request: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", nil, fmt.Errorf("refresh token request failed with status %d", resp.StatusCode)
	}

	var out refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", nil, fmt.Errorf("decode refresh response: %w", err)
	}

	expiresAt := time.Now().UTC().Add(time.Duration(out.ExpiresIn) * time.Second)

	return out.AccessToken, &expiresAt, nil
}
