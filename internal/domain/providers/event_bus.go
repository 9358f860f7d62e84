package providers

import (
	"context"

	"github.com/hvqdigital/agenda-console/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to agenda events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.AgendaEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.AgendaEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelAgendaUpdates is the channel every agenda change is broadcast on
const EventChannelAgendaUpdates = "agenda:updates"
