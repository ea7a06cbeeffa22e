package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"
)

var (
	// ErrNilEvent is returned by Notify when called without an event
	ErrNilEvent = errors.New("nil event")
	// ErrHandlerPanic wraps a panic recovered from a handler
	ErrHandlerPanic = errors.New("event handler panicked")
	// ErrUnexpectedEvent is returned by a handler registered under the wrong type
	ErrUnexpectedEvent = errors.New("unexpected event")
)

// HandlerError reports one handler failure during Notify.
type HandlerError struct {
	EventType string
	Position  int // index of the handler in registration order
	Handler   Handler
	Err       error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("events.Notify [%s] handler %d (%T): %v", e.EventType, e.Position, e.Handler, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// Dispatcher is a registry from event type names to ordered handler lists.
// It is safe for concurrent use. Handlers run synchronously on the goroutine
// that calls Notify, against a snapshot of the list taken at call time, so a
// handler may register or unregister handlers without deadlocking.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used to report handler failures.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[string][]Handler),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Register appends handler to the list for eventType. Registering the same
// handler twice makes it run twice per notification. Nil handlers are ignored.
func (d *Dispatcher) Register(eventType string, handler Handler) {
	if handler == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventType] = append(d.handlers[eventType], handler)
}

// Unregister removes the first handler equal to handler from the list for
// eventType. Unknown event types and handlers are ignored. The event type
// stays known with whatever handlers remain, possibly none.
func (d *Dispatcher) Unregister(eventType string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	list, ok := d.handlers[eventType]
	if !ok {
		return
	}
	for i, h := range list {
		if sameHandler(h, handler) {
			// copy so snapshots held by in-flight Notify calls stay intact
			next := make([]Handler, 0, len(list)-1)
			next = append(next, list[:i]...)
			next = append(next, list[i+1:]...)
			d.handlers[eventType] = next
			return
		}
	}
}

// UnregisterAll drops every event type and handler.
func (d *Dispatcher) UnregisterAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = make(map[string][]Handler)
}

// Handlers returns a copy of the handlers registered for eventType and
// whether the event type is known to the registry.
func (d *Dispatcher) Handlers(eventType string) ([]Handler, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	list, ok := d.handlers[eventType]
	return slices.Clone(list), ok
}

// EventTypes returns the known event types, sorted.
func (d *Dispatcher) EventTypes() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	types := make([]string, 0, len(d.handlers))
	for t := range d.handlers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Notify delivers event to every handler registered for its type, in
// registration order, passing the same event to each.
//
// A failing or panicking handler never stops the chain. All failures are
// returned together as *HandlerError values joined with errors.Join; nil means
// every handler succeeded or none was registered.
func (d *Dispatcher) Notify(ctx context.Context, event Event) error {
	if event == nil {
		return ErrNilEvent
	}
	eventType := event.EventType()

	d.mu.RLock()
	handlers := slices.Clone(d.handlers[eventType])
	d.mu.RUnlock()

	var errs []error
	for i, h := range handlers {
		if err := invoke(ctx, h, event); err != nil {
			d.logger.Error("event handler failed",
				"event_type", eventType,
				"position", i,
				"handler", fmt.Sprintf("%T", h),
				"error", err)
			errs = append(errs, &HandlerError{EventType: eventType, Position: i, Handler: h, Err: err})
		}
	}
	return errors.Join(errs...)
}

func invoke(ctx context.Context, h Handler, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()
	return h.Handle(ctx, event)
}

// sameHandler compares two handlers with ==. Handlers whose dynamic type is
// not comparable (HandlerFunc, structs holding slices or maps) never match.
func sameHandler(a, b Handler) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}
