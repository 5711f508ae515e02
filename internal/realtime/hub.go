package realtime

import (
	"encoding/json"
	"sync"
)

// Client represents a single websocket client connection.
// We keep it minimal here; the actual network conn is managed in the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// ChangeEvent is pushed to subscribers whenever the card snapshot changes.
type ChangeEvent struct {
	Type    string `json:"type"`
	Count   int    `json:"count"`
	Version uint64 `json:"version"`
}

// EventCardsChanged is the ChangeEvent type sent after a snapshot change.
const EventCardsChanged = "cards_changed"

// Hub maintains active subscriber connections and broadcasts events to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[Client]struct{}

	versionMu   sync.Mutex
	lastVersion uint64
}

// NewHub constructs an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[Client]struct{})}
}

// Register adds a client.
func (h *Hub) Register(client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

// Unregister removes a client.
func (h *Hub) Unregister(client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

// Len returns the number of registered clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a message to every registered client and returns how many
// accepted it. Failed clients are left for their handler to clean up.
func (h *Hub) Broadcast(message []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	sent := 0
	for c := range h.clients {
		if c.Send(message) {
			sent++
		}
	}
	return sent
}

// CloseAll closes and removes every registered client.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[Client]struct{})
	h.mu.Unlock()

	for c := range clients {
		c.Close()
	}
}

// CardsChanged implements the card service's change notifier. Events are
// sent in version order; one at or below the last version sent is dropped.
func (h *Hub) CardsChanged(count int, version uint64) {
	h.versionMu.Lock()
	defer h.versionMu.Unlock()
	if version <= h.lastVersion {
		return
	}
	h.lastVersion = version

	evt := ChangeEvent{Type: EventCardsChanged, Count: count, Version: version}
	if bytes, err := json.Marshal(evt); err == nil {
		h.Broadcast(bytes)
	}
}
