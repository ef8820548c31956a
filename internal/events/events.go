// Package events publishes inventory domain events to a message broker.
package events

import (
	"context"
	"time"
)

// Event types.
const (
	LotCreated        = "receipt.lot_created"
	LotStatusChanged  = "receipt.status_changed"
	DeliveryCreated   = "delivery.created"
	DeliveryStatusSet = "delivery.status_changed"
	TrashPurged       = "trash.purged"
)

// Event is the envelope written to the queue as JSON.
type Event struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

// New stamps an event with the current time.
func New(eventType string, data interface{}) Event {
	return Event{Type: eventType, OccurredAt: time.Now().UTC(), Data: data}
}

// Publisher sends events. Callers treat failures as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Noop discards every event. It is used when no broker is configured.
type Noop struct{}

// Publish implements Publisher.
func (Noop) Publish(context.Context, Event) error { return nil }

// Close implements Publisher.
func (Noop) Close() error { return nil }
