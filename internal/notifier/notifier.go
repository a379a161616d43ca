// Package notifier defines the one-line user-notification collaborator
// the Dispatcher calls on a token refresh failure (spec.md §4.3). Actually
// sending outbound email is out of scope; the default implementation logs
// and publishes onto the event bus for whatever downstream consumer wants
// to deliver it.
package notifier

import (
	"context"
	"log/slog"

	"github.com/dukex/integrail/internal/domain"
	"github.com/dukex/integrail/internal/eventbus"
)

// Notifier sends a one-line notification to a user.
type Notifier interface {
	Notify(ctx context.Context, userID string, app domain.App, message string) error
}

// reauthRequiredTopic is a bus-routing topic, not a member of the
// persisted Event Log's closed domain.EventType set (spec §7): nothing
// subscribed to it writes it to the log, it only carries the
// notification across the bus to whatever delivers it.
const reauthRequiredTopic domain.EventType = "reauth_required"

// EventBusNotifier logs the notification and publishes a ReauthRequired
// event; it does not deliver email itself.
type EventBusNotifier struct {
	bus    *eventbus.Bus
	logger *slog.Logger
}

// New returns an EventBusNotifier.
func New(bus *eventbus.Bus, logger *slog.Logger) *EventBusNotifier {
	return &EventBusNotifier{bus: bus, logger: logger}
}

// Notify logs the message and publishes it for async delivery.
func (n *EventBusNotifier) Notify(ctx context.Context, userID string, app domain.App, message string) error {
	n.logger.InfoContext(ctx, "user notification", "user_id", userID, "app", app, "message", message)

	return n.bus.Publish(ctx, eventbus.Event{
		Type: reauthRequiredTopic,
		Payload: map[string]any{
			"user_id": userID,
			"app":     app,
			"message": message,
		},
	})
}
