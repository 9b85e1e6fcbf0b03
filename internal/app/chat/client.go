package chat

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"wayfarer/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a message sent by the client.
	maxMessageSize = 8192

	// maximum allowed size (in bytes) for private message content.
	MaxContentBytes = 5000

	// storeTimeout bounds every store call made on behalf of one inbound
	// event, so a stalled query cannot wedge the connection forever.
	storeTimeout = 10 * time.Second
)

// Client represents one active WebSocket connection of an authenticated user.
// A user with several open tabs has several Clients sharing one room.
type Client struct {
	hub      *Hub
	presence *Presence
	messages *MessageService

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// sess is the session this connection authenticated as.
	sess Session

	// a buffered channel used to queue messages waiting to be sent to the client.
	send chan []byte

	closeOnce sync.Once

	// structured logger with client context.
	logger zerolog.Logger
}

// NewClient constructs a Client bound to its session and collaborators.
func NewClient(hub *Hub, presence *Presence, messages *MessageService, conn *websocket.Conn, sess Session) *Client {
	clientLogger := logx.Logger().With().
		Str("user_id", sess.UserID).
		Str("session_id", sess.SessionID).
		Logger()

	return &Client{
		hub:      hub,
		presence: presence,
		messages: messages,
		conn:     conn,
		sess:     sess,
		send:     make(chan []byte, 256),
		logger:   clientLogger,
	}
}

// Session returns the session this connection authenticated as.
func (c *Client) Session() Session {
	return c.sess
}

// SendEvent marshals the payload and queues it to this connection only.
func (c *Client) SendEvent(event string, data any) {
	messageBytes, err := NewEnvelope(event, data)
	if err != nil {
		c.logger.Error().Err(err).Str("event", event).Msg("Error marshaling event for client")
		return
	}
	c.trySend(messageBytes)
}

// trySend queues raw bytes without blocking. A client that cannot keep up
// loses the message rather than stalling the emitter.
func (c *Client) trySend(messageBytes []byte) {
	select {
	case c.send <- messageBytes:
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send channel full, dropping message")
	}
}

// closeSend closes the send channel exactly once.
func (c *Client) closeSend() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// ReadPump handles reading messages from the WebSocket connection.
// It handles heartbeats (Pong), event dispatch, and performs cleanup upon
// connection closure.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (Client close/going away)")
			}
			break
		}

		c.processInboundEvent(messageBytes)
	}
}

// cleanupOnDisconnect leaves the room, lets the presence broadcaster
// re-evaluate the user's online state, and closes the connection.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.hub.Leave(c)

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	c.presence.HandleDisconnect(ctx, c.sess)

	c.closeSend()

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Client connection close error")
	}
}

// processInboundEvent parses the envelope and dispatches by event name.
// Handler errors are logged and otherwise swallowed: in-session failures are
// fire-and-forget, there is no error channel back to the client.
func (c *Client) processInboundEvent(messageBytes []byte) {
	var env Envelope
	if err := json.Unmarshal(messageBytes, &env); err != nil {
		c.logger.Warn().Err(err).
			Bytes("message_bytes", messageBytes).
			Msg("Client sent invalid JSON")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	switch env.Event {
	case EventGetFriendsList:
		c.handleFriendList(ctx)

	case EventFetchMessages:
		c.handleFetchMessages(ctx, env.Data)

	case EventPrivateMessage:
		c.handlePrivateMessage(ctx, env.Data)

	case EventTyping:
		c.handleTyping(env.Data, EventDisplayTyping)

	case EventStopTyping:
		c.handleTyping(env.Data, EventHideTyping)

	case EventMarkReceived:
		c.handleMarkStatus(ctx, env.Data, StatusDelivered)

	case EventMarkRead:
		c.handleMarkStatus(ctx, env.Data, StatusRead)

	default:
		c.logger.Warn().Str("event", env.Event).Msg("Client sent unsupported event")
	}
}

func (c *Client) handleFriendList(ctx context.Context) {
	entries, err := c.messages.ChatList(ctx, c.sess.UserID)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to build friend list")
		return
	}

	c.SendEvent(EventUsers, entries)
}

func (c *Client) handleFetchMessages(ctx context.Context, payload json.RawMessage) {
	var input WithUserInput
	if err := json.Unmarshal(payload, &input); err != nil || input.WithUserID == "" {
		c.logger.Warn().Err(err).Msg("Client sent invalid fetch messages payload")
		return
	}

	history, err := c.messages.History(ctx, c.sess.UserID, input.WithUserID)
	if err != nil {
		c.logger.Error().Err(err).Str("with_user_id", input.WithUserID).Msg("Failed to fetch chat history")
		return
	}

	c.SendEvent(EventChatHistory, ChatHistoryPayload{
		WithUserID: input.WithUserID,
		Messages:   history,
	})
}

func (c *Client) handlePrivateMessage(ctx context.Context, payload json.RawMessage) {
	var input PrivateMessageInput
	if err := json.Unmarshal(payload, &input); err != nil || input.To == "" {
		c.logger.Warn().Err(err).Msg("Client sent invalid private message payload")
		return
	}

	if len(input.Content) > MaxContentBytes {
		c.logger.Warn().Int("content_bytes", len(input.Content)).Msg("Private message content too long, dropping")
		return
	}

	if err := c.messages.SendPrivate(ctx, c.sess.UserID, input.To, input.Content); err != nil {
		c.logger.Error().Err(err).Str("to", input.To).Msg("Failed to deliver private message")
	}
}

// handleTyping relays a typing signal to the target's room. Stateless: nothing
// is stored and a lost signal is simply never displayed.
func (c *Client) handleTyping(payload json.RawMessage, outEvent string) {
	var input TypingInput
	if err := json.Unmarshal(payload, &input); err != nil || input.To == "" {
		c.logger.Warn().Err(err).Msg("Client sent invalid typing payload")
		return
	}

	c.hub.Emit(input.To, outEvent, TypingSignal{UserID: c.sess.UserID})
}

func (c *Client) handleMarkStatus(ctx context.Context, payload json.RawMessage, target Status) {
	var input WithUserInput
	if err := json.Unmarshal(payload, &input); err != nil || input.WithUserID == "" {
		c.logger.Warn().Err(err).Msg("Client sent invalid mark status payload")
		return
	}

	if err := c.messages.MarkStatus(ctx, c.sess.UserID, input.WithUserID, target); err != nil {
		c.logger.Error().Err(err).
			Str("with_user_id", input.WithUserID).
			Int16("target_status", int16(target)).
			Msg("Failed to advance message status")
	}
}

// WritePump handles writing messages from the Client.send channel to the WebSocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		// ensure the connection is closed on exit
		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !c.writeQueuedMessage(message, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedMessage handles messages pulled from the send channel, writing them to the WebSocket.
// Returns true if the WritePump loop should continue, false if it should terminate.
func (c *Client) writeQueuedMessage(message []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a periodic WebSocket Ping message to maintain the connection heartbeat.
// Returns false if the WritePump loop should terminate due to write failure.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
