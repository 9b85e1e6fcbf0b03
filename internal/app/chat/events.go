/*
Package chat contains the realtime core: connection handling, the per-user
broadcast hub, presence signaling, private message delivery and the
notification fan-out used by the rest of the platform.
*/
package chat

import (
	"encoding/json"
	"time"

	"wayfarer/internal/app/user"
)

// Event names on the websocket wire. These match the frontend protocol and
// must not be renamed independently of it.
const (
	// server -> client, post-auth acknowledgement
	EventSession = "session"

	// client -> server
	EventGetFriendsList = "get friends list"
	EventFetchMessages  = "fetch messages"
	EventPrivateMessage = "private message"
	EventTyping         = "typing"
	EventStopTyping     = "stop typing"
	EventMarkReceived   = "mark messages received"
	EventMarkRead       = "mark messages read"

	// server -> client
	EventUsers            = "users"
	EventChatHistory      = "chat history"
	EventDisplayTyping    = "display typing"
	EventHideTyping       = "hide typing"
	EventMessageReceived  = "message received"
	EventMessagesRead     = "messages read"
	EventUserConnected    = "user connected"
	EventUserDisconnected = "user disconnected"
	EventNotification     = "receive notification"
)

// Envelope frames every websocket message in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewEnvelope marshals the payload and wraps it with the event name.
func NewEnvelope(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Envelope{Event: event, Data: raw})
}

// SessionPayload acknowledges a successful handshake. The client persists
// sessionID and presents it on reconnection instead of a token.
type SessionPayload struct {
	SessionID string `json:"sessionID"`
	UserID    string `json:"userID"`
	Username  string `json:"username"`
}

// PresencePayload is emitted into friends' rooms on connect and disconnect.
type PresencePayload struct {
	UserID    string `json:"userID"`
	Username  string `json:"username"`
	Connected bool   `json:"connected"`
}

// PrivateMessageInput is the client payload of a "private message" event.
type PrivateMessageInput struct {
	Content string `json:"content"`
	To      string `json:"to"`
}

// WithUserInput addresses an operation at the conversation with one counterpart.
type WithUserInput struct {
	WithUserID string `json:"withUserID"`
}

// TypingInput is the client payload of "typing" / "stop typing".
type TypingInput struct {
	To string `json:"to"`
}

// TypingSignal is relayed to the counterpart's room.
type TypingSignal struct {
	UserID string `json:"userID"`
}

// StatusSignal tells a sender that their messages were received or read.
type StatusSignal struct {
	ByUserID string `json:"byUserID"`
}

// ChatHistoryPayload answers a "fetch messages" event.
type ChatHistoryPayload struct {
	WithUserID string        `json:"withUserID"`
	Messages   []WireMessage `json:"messages"`
}

// ChatListEntry is one row of the "users" friend/chat list.
type ChatListEntry struct {
	user.Profile
	Connected     bool       `json:"connected"`
	LastMessage   *string    `json:"lastMessage"`
	LastMessageAt *time.Time `json:"lastMessageHora"`
	UnreadCount   int64      `json:"unreadCount"`
}
