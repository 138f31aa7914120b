package control

import (
	"log/slog"
	"sync"

	"github.com/louis49/androidtv-remote/pkg/androidtv"
)

const defaultSubscriberBuffer = 32

// Hub fans events out to any number of subscribers. A subscriber that
// falls behind loses events rather than stalling the others.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]chan androidtv.Event
	next   uint64
	closed bool
	logger *slog.Logger
}

// NewHub creates an empty Hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{subs: make(map[uint64]chan androidtv.Event), logger: logger}
}

// Subscribe registers a subscriber. The returned cancel func unregisters it
// and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe() (<-chan androidtv.Event, func()) {
	ch := make(chan androidtv.Event, defaultSubscriberBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	id := h.next
	h.next++
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if c, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(c)
			}
		})
	}
}

// Publish delivers e to every subscriber with room for it.
func (h *Hub) Publish(e androidtv.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, ch := range h.subs {
		select {
		case ch <- e:
		default:
			h.logger.Debug("subscriber lagging, event dropped", "subscriber", id, "kind", e.Kind)
		}
	}
}

// Len returns the number of subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close unregisters every subscriber. Later Subscribe calls get a closed
// channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
