package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is a record of something that happened in the domain. EventType is the
// dispatch key; EventData is meaningful only to the handlers of that type.
type Event interface {
	EventType() string
	EventData() any
}

// Handler reacts to one event type.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a function to the Handler interface.
//
// Function values are not comparable, so a HandlerFunc cannot be removed with
// Unregister; wrap it in a named type behind a pointer if it must be.
type HandlerFunc func(ctx context.Context, event Event) error

// Handle calls f(ctx, event).
func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Metadata is embedded by the concrete events in this package.
type Metadata struct {
	ID         string
	OccurredAt time.Time
}

func newMetadata() Metadata {
	return Metadata{
		ID:         uuid.NewString(),
		OccurredAt: time.Now().UTC(),
	}
}
