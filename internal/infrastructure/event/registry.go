package event

import (
	"sync"

	"github.com/growbro/backend/internal/domain/shared"
)

// HandlerRegistry manages event handler registrations
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler // eventType -> handlers
	wildcard []shared.EventHandler            // handlers for all events
}

// NewHandlerRegistry creates a new handler registry
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		handlers: make(map[string][]shared.EventHandler),
		wildcard: make([]shared.EventHandler, 0),
	}
}

// Register adds a handler for specific event types.
// If no event types are provided, the handler receives all events.
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(eventTypes) == 0 {
		r.wildcard = append(r.wildcard, handler)
		return
	}
	for _, eventType := range eventTypes {
		r.handlers[eventType] = append(r.handlers[eventType], handler)
	}
}

// Unregister removes a handler from all event types
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.wildcard = removeHandler(r.wildcard, handler)
	for eventType, handlers := range r.handlers {
		r.handlers[eventType] = removeHandler(handlers, handler)
		if len(r.handlers[eventType]) == 0 {
			delete(r.handlers, eventType)
		}
	}
}

// GetHandlers returns all handlers for a specific event type, including
// wildcard handlers
func (r *HandlerRegistry) GetHandlers(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specific := r.handlers[eventType]
	out := make([]shared.EventHandler, 0, len(specific)+len(r.wildcard))
	out = append(out, specific...)
	out = append(out, r.wildcard...)
	return out
}

func removeHandler(handlers []shared.EventHandler, target shared.EventHandler) []shared.EventHandler {
	out := handlers[:0]
	for _, h := range handlers {
		if h != target {
			out = append(out, h)
		}
	}
	return out
}
