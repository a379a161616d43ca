// Package dispatcher is the Integration Dispatcher (C3): the single entry
// point business logic uses to call a third-party API, resolving and
// refreshing tokens and caching read-only results ahead of the adapters.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dukex/integrail/internal/credentials"
	"github.com/dukex/integrail/internal/dispatcher/ttlcache"
	"github.com/dukex/integrail/internal/domain"
	"github.com/dukex/integrail/internal/errkind"
	"github.com/dukex/integrail/internal/eventlog"
	"github.com/dukex/integrail/internal/integrations/github"
	"github.com/dukex/integrail/internal/integrations/gmail"
	"github.com/dukex/integrail/internal/integrations/slack"
	"github.com/dukex/integrail/internal/notifier"
	"github.com/dukex/integrail/internal/registry"
)

// cacheTTL is the read-only method -> TTL table from spec.md §4.3.
var cacheTTL = map[domain.App]map[string]time.Duration{
	domain.AppGmail: {
		"listLabels": 5 * time.Minute,
		"getProfile": 10 * time.Minute,
	},
	domain.AppSlack: {
		"listChannels":     5 * time.Minute,
		"listUsers":        5 * time.Minute,
		"getWorkspaceInfo": 10 * time.Minute,
		"getCurrentUser":   10 * time.Minute,
	},
	domain.AppGitHub: {
		"listRepos":      5 * time.Minute,
		"getCurrentUser": 10 * time.Minute,
	},
}

// Dispatcher implements the 5-step contract in spec.md §4.3.
type Dispatcher struct {
	creds    *credentials.Store
	cache    *ttlcache.Cache
	notifier notifier.Notifier
	events   *eventlog.Log
	oauth    OAuthClients
	http     *http.Client

	gmail  *gmail.Client
	slack  *slack.Client
	github *github.Client
}

// New wires a Dispatcher over the given credential store, OAuth refresh
// configuration, notifier, and event log (for token_refreshed entries,
// spec.md §4.3 step 2).
func New(creds *credentials.Store, oauth OAuthClients, notif notifier.Notifier, events *eventlog.Log) *Dispatcher {
	return &Dispatcher{
		creds:    creds,
		cache:    ttlcache.New(),
		notifier: notif,
		events:   events,
		oauth:    oauth,
		http:     &http.Client{Timeout: 15 * time.Second},
		gmail:    gmail.New(),
		slack:    slack.New(),
		github:   github.New(),
	}
}

// Call resolves the user's credential for app (refreshing if expired),
// serves cacheable reads from the TTL cache, and otherwise routes to the
// adapter method.
func (d *Dispatcher) Call(ctx context.Context, userID string, app domain.App, method string, args map[string]any) (any, error) {
	cred, err := d.creds.Load(ctx, userID, app)
	if err != nil {
		var kindErr *errkind.Error
		if errors.As(err, &kindErr) && kindErr.Kind == errkind.NotConnected {
			_ = d.notifier.Notify(ctx, userID, app, fmt.Sprintf("please connect your %s account", app))
		}

		return nil, err
	}

	if cred.Expired(time.Now().UTC()) {
		if err := d.refreshCredential(ctx, userID, app, cred); err != nil {
			return nil, err
		}
	}

	if method == registry.MethodCredentialMetadata {
		return cred.Metadata, nil
	}

	cacheKey := fmt.Sprintf("%s:%s:%s", app, userID, method)
	ttl, cacheable := cacheTTL[app][method]

	if cacheable {
		if v, hit := d.cache.Get(cacheKey); hit {
			return v, nil
		}
	}

	result, err := d.route(ctx, app, method, cred.AccessToken, args)
	if err != nil {
		return nil, err
	}

	if cacheable {
		d.cache.Set(cacheKey, result, ttl)
	}

	return result, nil
}

func (d *Dispatcher) refreshCredential(ctx context.Context, userID string, app domain.App, cred *domain.Credential) error {
	client, ok := d.oauth[app]
	if !ok || cred.RefreshToken == "" {
		_ = d.notifier.Notify(ctx, userID, app, fmt.Sprintf("please reconnect your %s account", app))

		return errkind.New(errkind.ReauthRequired, fmt.Errorf("no refresh path configured for %s", app))
	}

	accessToken, expiresAt, err := refresh(ctx, d.http, client, cred.RefreshToken)
	if err != nil {
		_ = d.notifier.Notify(ctx, userID, app, fmt.Sprintf("please reconnect your %s account", app))

		return errkind.New(errkind.ReauthRequired, fmt.Errorf("refresh %s token: %w", app, err))
	}

	if err := d.creds.UpdateAccess(ctx, cred.ID, accessToken, expiresAt); err != nil {
		return fmt.Errorf("persist refreshed token: %w", err)
	}

	cred.AccessToken = accessToken
	cred.ExpiresAt = expiresAt

	_ = d.events.Create(ctx, domain.EventTokenRefreshed, map[string]any{"app": app}, eventlog.WithUser(userID))

	return nil
}

func (d *Dispatcher) route(ctx context.Context, app domain.App, method, token string, args map[string]any) (any, error) {
	switch app {
	case domain.AppGmail:
		return d.routeGmail(ctx, method, token, args)
	case domain.AppSlack:
		return d.routeSlack(ctx, method, token, args)
	case domain.AppGitHub:
		return d.routeGitHub(ctx, method, token, args)
	default:
		return nil, errkind.New(errkind.InvalidRequest, fmt.Errorf("dispatcher: unsupported app %q", app))
	}
}

func str(args map[string]any, key string) string {
	v, _ := args[key].(string)

	return v
}

func strSlice(args map[string]any, key string) []string {
	if v, ok := args[key].([]string); ok {
		return v
	}

	raw, _ := args[key].([]any)

	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}

	return out
}

func intArg(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return def
	}
}
