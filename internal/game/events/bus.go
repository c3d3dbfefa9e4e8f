package events

import (
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// route is one registered receiver. Subscribers and function handlers share
// the same list so delivery follows registration order.
type route struct {
	id      string
	accepts func(eventType string) bool
	handle  EventHandler
}

// EventBus delivers events synchronously on the publishing goroutine.
// Receivers may subscribe or unsubscribe from inside a handler; the change
// applies from the next Publish.
type EventBus struct {
	mu     sync.RWMutex
	routes []route
	nextID uint64
	logger zerolog.Logger
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{
		logger: log.With().Str("component", "event_bus").Logger(),
	}
}

// Subscribe registers a subscriber. A subscriber with the same ID replaces
// the earlier registration in place.
func (eb *EventBus) Subscribe(subscriber Subscriber) {
	r := route{id: subscriber.ID(), accepts: subscriber.InterestedIn, handle: subscriber.HandleEvent}

	eb.mu.Lock()
	if i := eb.indexOf(r.id); i >= 0 {
		eb.routes[i] = r
	} else {
		eb.routes = append(eb.routes, r)
	}
	eb.mu.Unlock()

	eb.logger.Debug().Str("subscriber_id", r.id).Msg("Subscriber added to event bus")
}

// SubscribeFunc registers handler for a single event type and returns an ID
// that Unsubscribe accepts.
func (eb *EventBus) SubscribeFunc(eventType string, handler EventHandler) string {
	eb.mu.Lock()
	eb.nextID++
	id := fmt.Sprintf("%s#%d", eventType, eb.nextID)
	eb.routes = append(eb.routes, route{
		id:      id,
		accepts: func(t string) bool { return t == eventType },
		handle:  handler,
	})
	eb.mu.Unlock()

	eb.logger.Debug().Str("handler_id", id).Msg("Function handler added to event bus")
	return id
}

// Unsubscribe removes the subscriber or function handler with the given ID.
// Unknown IDs are ignored.
func (eb *EventBus) Unsubscribe(id string) {
	eb.mu.Lock()
	i := eb.indexOf(id)
	if i >= 0 {
		eb.routes = slices.Delete(eb.routes, i, i+1)
	}
	eb.mu.Unlock()

	if i >= 0 {
		eb.logger.Debug().Str("subscriber_id", id).Msg("Subscriber removed from event bus")
	}
}

// Publish hands the event to every interested receiver registered when the
// call started. The lock is released before any handler runs.
func (eb *EventBus) Publish(event Event) {
	eventType := event.Type()

	eb.mu.RLock()
	targets := make([]route, 0, len(eb.routes))
	for _, r := range eb.routes {
		if r.accepts(eventType) {
			targets = append(targets, r)
		}
	}
	eb.mu.RUnlock()

	eb.logger.Debug().
		Str("event_type", eventType).
		Str("session_id", event.SessionID()).
		Int("receivers", len(targets)).
		Msg("Publishing event")

	for _, r := range targets {
		eb.deliver(r, event)
	}
}

// deliver runs one handler, containing any panic so the remaining receivers
// still see the event.
func (eb *EventBus) deliver(r route, event Event) {
	defer func() {
		if p := recover(); p != nil {
			eb.logger.Error().
				Str("subscriber_id", r.id).
				Str("event_type", event.Type()).
				Interface("panic", p).
				Msg("Subscriber panicked while handling event")
		}
	}()
	r.handle(event)
}

func (eb *EventBus) indexOf(id string) int {
	return slices.IndexFunc(eb.routes, func(r route) bool { return r.id == id })
}
