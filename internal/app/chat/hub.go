package chat

import (
	"sync"

	"github.com/rs/zerolog"

	"wayfarer/internal/pkg/logx"
)

// Hub is the room directory of the realtime core. Every authenticated
// connection joins the room named after its user ID, so "emit to user X"
// reaches all of X's open tabs at once.
//
// The hub is shared mutable state touched from every connection goroutine,
// so all room access goes through the mutex.
type Hub struct {
	// rooms maps a user ID to the set of live connections in that user's room.
	rooms map[string]map[*Client]struct{}

	mu sync.RWMutex

	logger zerolog.Logger
}

// NewHub constructs an empty Hub.
func NewHub() *Hub {
	return &Hub{
		rooms:  make(map[string]map[*Client]struct{}),
		logger: logx.Component("hub"),
	}
}

// Join adds the client to its user's room, creating the room if needed.
func (h *Hub) Join(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[c.sess.UserID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[c.sess.UserID] = room
	}
	room[c] = struct{}{}

	h.logger.Debug().
		Str("user_id", c.sess.UserID).
		Int("room_size", len(room)).
		Msg("Client joined room")
}

// Leave removes the client from its user's room. Empty rooms are deleted so
// ConnCount stays an accurate liveness signal. Safe to call more than once.
func (h *Hub) Leave(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[c.sess.UserID]
	if !ok {
		return
	}

	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, c.sess.UserID)
	}

	h.logger.Debug().
		Str("user_id", c.sess.UserID).
		Int("room_size", len(room)).
		Msg("Client left room")
}

// ConnCount reports how many live connections the user currently has.
// Presence decisions must call this at decision time, not earlier: room
// membership may change across any store call.
func (h *Hub) ConnCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[userID])
}

// Emit marshals the payload once and queues it to every connection in the
// user's room. Delivery is best-effort: an empty room is a silent no-op and a
// client with a full send queue is skipped.
func (h *Hub) Emit(userID string, event string, data any) {
	messageBytes, err := NewEnvelope(event, data)
	if err != nil {
		h.logger.Error().Err(err).
			Str("event", event).
			Str("user_id", userID).
			Msg("Error marshaling payload for room emit")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[userID] {
		client.trySend(messageBytes)
	}
}

// Shutdown closes the send channel of every connected client, which winds
// down their write pumps.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, room := range h.rooms {
		for client := range room {
			client.closeSend()
		}
		delete(h.rooms, userID)
	}

	h.logger.Info().Msg("Hub shutdown complete.")
}
