// Package events carries the single logical event the engine emits: a new
// canonical snapshot replaced the old one. Presentation layers subscribe;
// the payload is the snapshot itself.
package events

import (
	"sync"

	"github.com/google/uuid"

	"github.com/Hearthguard-Labs/hearthguard/pkg/snapshot"
)

// Handler receives the new canonical snapshot.
type Handler func(*snapshot.Snapshot)

// Hub is an in-process subscription registry. Safe for concurrent use.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]Handler
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]Handler)}
}

// Subscribe registers a handler and returns its subscription id.
func (h *Hub) Subscribe(fn Handler) string {
	id := uuid.NewString()
	h.mu.Lock()
	h.subs[id] = fn
	h.mu.Unlock()
	return id
}

// Unsubscribe removes a subscription. Unknown ids are a no-op.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	delete(h.subs, id)
	h.mu.Unlock()
}

// Publish delivers the snapshot to every subscriber on the calling
// goroutine. Handlers must not block.
func (h *Hub) Publish(s *snapshot.Snapshot) {
	h.mu.RLock()
	handlers := make([]Handler, 0, len(h.subs))
	for _, fn := range h.subs {
		handlers = append(handlers, fn)
	}
	h.mu.RUnlock()

	for _, fn := range handlers {
		fn(s)
	}
}
