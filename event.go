package stagekit

import (
	"time"

	"github.com/google/uuid"
)

// Reserved event types used by the engine when the caller does not supply
// an explicit event.
const (
	// EventStart is the default event type for Start.
	EventStart = "@START"
	// EventStop is the default event type for Stop.
	EventStop = "@STOP"
	// EventGo is the default event type for Go.
	EventGo = "@GO"
)

// Event identifies a stimulus delivered to the machine, together with an
// optional opaque payload. Events are value types constructed fresh per
// dispatch; the engine never retains them.
type Event struct {
	Type string
	Data any

	// ID and Timestamp are diagnostic metadata for logs and recorders.
	// The engine never consults them.
	ID        string
	Timestamp time.Time
}

// NewEvent creates an event with diagnostic metadata filled in.
func NewEvent(eventType string, data any) Event {
	return Event{
		Type:      eventType,
		Data:      data,
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
	}
}

// normalize backfills diagnostic metadata on caller-constructed events.
func (e Event) normalize() Event {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	return e
}

// pickEvent returns the first supplied event, normalized, or a fresh event
// of the fallback type.
func pickEvent(evts []Event, fallback string) Event {
	if len(evts) > 0 {
		return evts[0].normalize()
	}
	return NewEvent(fallback, nil)
}
