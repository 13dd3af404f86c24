package eventbus

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"griddle/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventBeforeSort      = domain.EventBeforeSort
	EventAfterSort       = domain.EventAfterSort
	EventRowsLoaded      = domain.EventRowsLoaded
	EventRedrawRequested = domain.EventRedrawRequested
	EventError           = domain.EventError
	EventConfigLoaded    = domain.EventConfigLoaded
	EventConfigSaved     = domain.EventConfigSaved
)

// Re-export domain event types
type BeforeSortEvent = domain.BeforeSortEvent
type AfterSortEvent = domain.AfterSortEvent
type RowsLoadedEvent = domain.RowsLoadedEvent
type RedrawRequestedEvent = domain.RedrawRequestedEvent
type ErrorEvent = domain.ErrorEvent
type ConfigLoadedEvent = domain.ConfigLoadedEvent
type ConfigSavedEvent = domain.ConfigSavedEvent

// EventHandler handles a domain event. The returned bool requests
// cancellation; it is only honored for events published through
// PublishCancelable, plain notifications ignore it.
type EventHandler func(DomainEvent) bool

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	PublishCancelable(event DomainEvent) bool
	Subscribe(eventType EventType, handler EventHandler) func()
}

// bus is the concrete implementation of EventBus. Handlers run
// synchronously on the publishing goroutine, in registration order.
type bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[EventType][]subscription
}

type subscription struct {
	id      int
	handler EventHandler
}

// New creates a new event bus
func New() EventBus {
	return &bus{
		handlers: make(map[EventType][]subscription),
	}
}

// Publish delivers an event to all subscribers as a plain notification
func (b *bus) Publish(event DomainEvent) {
	b.emit(event)
}

// PublishCancelable delivers an event to all subscribers and reports
// whether any of them requested cancellation. Every handler still runs,
// later handlers see the event even after an earlier one cancelled.
func (b *bus) PublishCancelable(event DomainEvent) bool {
	return b.emit(event)
}

func (b *bus) emit(event DomainEvent) bool {
	b.mu.RLock()
	subs := b.handlers[event.Type()]
	// Copy so handlers can subscribe/unsubscribe while we dispatch
	subsCopy := make([]subscription, len(subs))
	copy(subsCopy, subs)
	b.mu.RUnlock()

	cancelled := false
	for _, sub := range subsCopy {
		if sub.handler(event) {
			cancelled = true
		}
	}
	if cancelled {
		log.Debugf("eventbus: event %s cancelled by listener", event.Type())
	}
	return cancelled
}

// Subscribe subscribes to events of a specific type.
// Returns an unsubscribe function.
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.handlers[eventType] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Notify wraps a handler that never cancels, for plain listeners
func Notify(fn func(DomainEvent)) EventHandler {
	return func(e DomainEvent) bool {
		fn(e)
		return false
	}
}
