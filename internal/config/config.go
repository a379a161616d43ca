// Package config is the typed configuration surface for the engine's
// binaries: database, queue backend, event bus, provider OAuth clients,
// and tunables (concurrency, retention). Values are read from flags by
// cmd/enginectl (grounded on the teacher's cmd/operion-worker flag set)
// and assembled here into one struct so every subcommand shares the same
// shape.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/dukex/integrail/internal/dispatcher"
	"github.com/dukex/integrail/internal/domain"
)

// QueueBackend selects the Job Queue implementation.
type QueueBackend string

// EventBusBackend selects the event bus implementation.
type EventBusBackend string

const (
	QueueMemory QueueBackend = "memory"
	QueueRedis  QueueBackend = "redis"

	EventBusGoChannel EventBusBackend = "gochannel"
	EventBusKafka     EventBusBackend = "kafka"
)

// Config is the engine's full runtime configuration.
type Config struct {
	DatabaseURL string

	QueueBackend QueueBackend
	RedisAddr    string

	EventBus      EventBusBackend
	KafkaBrokers  string
	ConsumerGroup string

	AdminPort int

	ExecutorConcurrency    int
	SchedulerSweepInterval time.Duration
	RunRetention           time.Duration
	TerminalFailurePolicy  string

	OAuthClients dispatcher.OAuthClients

	LogLevel string
}

// ParseOAuthClients parses a set of raw --oauth-client flag values into
// an OAuthClients map keyed by app.
func ParseOAuthClients(raw []string) (dispatcher.OAuthClients, error) {
	clients := make(dispatcher.OAuthClients, len(raw))

	for _, entry := range raw {
		parts := strings.SplitN(entry, ":", 4)
		if len(parts) != 4 {
			return nil, fmt.Errorf("invalid --oauth-client %q, want app:client_id:client_secret:token_url", entry)
		}

		clients[domain.App(parts[0])] = dispatcher.OAuthClient{
			ClientID:     parts[1],
			ClientSecret: parts[2],
			TokenURL:     parts[3],
		}
	}

	return clients, nil
}
