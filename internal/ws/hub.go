// internal/ws/hub.go
package ws

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event is one message pushed to a connected client.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
	SentAt  time.Time   `json:"sent_at"`
}

// Hub tracks the open connections per identity. Pushes are best effort: a
// client whose send buffer is full is dropped rather than blocking the
// sender.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]bool
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[int64]map[*Client]bool),
		logger:  logger,
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[c.identityID] == nil {
		h.clients[c.identityID] = make(map[*Client]bool)
	}
	h.clients[c.identityID][c] = true
	h.logger.Debug("ws client connected", zap.Int64("identity_id", c.identityID))
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.clients[c.identityID]
	if !ok {
		return
	}
	if _, ok := conns[c]; ok {
		delete(conns, c)
		close(c.send)
		if len(conns) == 0 {
			delete(h.clients, c.identityID)
		}
	}
}

// Notify pushes an event to every open connection of one identity. Silently
// does nothing when the identity is not connected.
func (h *Hub) Notify(identityID int64, eventType string, payload interface{}) {
	event := Event{Type: eventType, Payload: payload, SentAt: time.Now()}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients[identityID] {
		select {
		case c.send <- event:
		default:
			h.logger.Warn("ws client send buffer full, dropping",
				zap.Int64("identity_id", identityID))
			go c.conn.Close()
		}
	}
}

// ConnectedCount reports how many connections one identity holds.
func (h *Hub) ConnectedCount(identityID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[identityID])
}
