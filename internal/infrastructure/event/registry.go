package event

import (
	"slices"
	"sync"

	"github.com/fintrack/backend/internal/domain/shared"
)

// anyType keys handlers subscribed to every event
const anyType = "*"

// HandlerRegistry maps event types to their handlers
type HandlerRegistry struct {
	mu     sync.RWMutex
	byType map[string][]shared.EventHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{byType: map[string][]shared.EventHandler{}}
}

// Register subscribes handler to eventTypes, or to every type when none are given
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = []string{anyType}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range eventTypes {
		r.byType[t] = append(r.byType[t], handler)
	}
}

// Unregister drops handler from every type
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for t, hs := range r.byType {
		hs = slices.DeleteFunc(hs, func(h shared.EventHandler) bool { return h == handler })
		if len(hs) == 0 {
			delete(r.byType, t)
			continue
		}
		r.byType[t] = hs
	}
}

// GetHandlers returns the handlers of eventType followed by the catch-all ones
func (r *HandlerRegistry) GetHandlers(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Concat(r.byType[eventType], r.byType[anyType])
}

// Count is the number of distinct handlers
func (r *HandlerRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[shared.EventHandler]struct{}{}
	for _, hs := range r.byType {
		for _, h := range hs {
			seen[h] = struct{}{}
		}
	}
	return len(seen)
}
