// Package audit records what the client did against the backend: orders
// created, lines added, status changes and reservations. Recording never
// fails the action being recorded.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EventOrderCreated       = "order_created"
	EventOrderLineAdded     = "order_line_added"
	EventStatusChange       = "status_change"
	EventReservationCreated = "reservation_created"
	EventContactSent        = "contact_sent"
)

// Event is one audit record
type Event struct {
	ID            uuid.UUID              `json:"id"`
	Type          string                 `json:"type"`
	OrderID       int64                  `json:"order_id,omitempty"`
	ReservationID int64                  `json:"reservation_id,omitempty"`
	Data          map[string]interface{} `json:"data,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

// Sink receives audit events
type Sink interface {
	Record(ctx context.Context, event Event)
}

// NewEvent stamps an event with a fresh id and the current time
func NewEvent(eventType string, data map[string]interface{}) Event {
	return Event{
		ID:        uuid.New(),
		Type:      eventType,
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}
}

// Nop discards every event
type Nop struct{}

func (Nop) Record(context.Context, Event) {}
