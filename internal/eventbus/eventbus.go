// Package eventbus is a watermill-backed pub/sub used to notify
// collaborators (the Dispatcher's reauth notifications, the admin surface)
// of log-worthy events without coupling them to the Event Log's storage.
// Grounded on the teacher's pkg/eventbus.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/dukex/integrail/internal/domain"
)

// Topic is the single topic every event publishes to; handlers filter by
// EventType in the message metadata.
const Topic = "integrail.events"

const eventTypeMetadataKey = "event_type"

// Event is anything with a closed event type that the bus can carry.
type Event struct {
	Type    domain.EventType `json:"type"`
	Payload map[string]any   `json:"payload"`
}

// Handler processes one published event. Returning an error nacks the
// underlying message so watermill redelivers it.
type Handler func(ctx context.Context, event Event) error

// Bus wraps a watermill publisher/subscriber pair (gochannel in tests and
// single-process deployments, Kafka in production).
type Bus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	handlers   map[domain.EventType][]Handler
}

// New wraps a publisher/subscriber pair as a Bus.
func New(pub message.Publisher, sub message.Subscriber) *Bus {
	return &Bus{publisher: pub, subscriber: sub, handlers: make(map[domain.EventType][]Handler)}
}

// Publish marshals and publishes event to Topic.
func (b *Bus) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewULID(), payload)
	msg.Metadata.Set(eventTypeMetadataKey, string(event.Type))

	if err := b.publisher.Publish(Topic, msg); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	return nil
}

// On registers a handler for eventType. Must be called before Subscribe.
func (b *Bus) On(eventType domain.EventType, handler Handler) {
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Subscribe starts consuming Topic in a background goroutine, dispatching
// each message to every handler registered for its event type.
func (b *Bus) Subscribe(ctx context.Context) error {
	messages, err := b.subscriber.Subscribe(ctx, Topic)
	if err != nil {
		return fmt.Errorf("subscribe to events: %w", err)
	}

	go func() {
		for msg := range messages {
			b.dispatch(ctx, msg)
		}
	}()

	return nil
}

func (b *Bus) dispatch(ctx context.Context, msg *message.Message) {
	var event Event

	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		msg.Nack()

		return
	}

	handlers := b.handlers[event.Type]
	if len(handlers) == 0 {
		msg.Ack()

		return
	}

	for _, h := range handlers {
		if err := h(ctx, event); err != nil {
			msg.Nack()

			return
		}
	}

	msg.Ack()
}

// Close closes both the publisher and subscriber.
func (b *Bus) Close() error {
	if err := b.publisher.Close(); err != nil {
		return err
	}

	return b.subscriber.Close()
}
