package chat

import (
	"context"
	"time"
)

// Status is the delivery lifecycle stage of a message.
// It only ever advances: SENT -> DELIVERED -> READ.
type Status int16

const (
	StatusSent      Status = 0
	StatusDelivered Status = 1
	StatusRead      Status = 2
)

// Message is a persisted private message between two travelers.
type Message struct {
	ID        string
	Content   string
	Sender    string
	Recipient string
	SentAt    time.Time
	Status    Status
}

// WireMessage is the transport shape of a message as the frontend consumes it.
type WireMessage struct {
	Content   string    `json:"content"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	CreatedAt time.Time `json:"createdAt"`
	Status    Status    `json:"status"`
}

// Wire maps the persisted message onto its transport shape.
func (m Message) Wire() WireMessage {
	return WireMessage{
		Content:   m.Content,
		From:      m.Sender,
		To:        m.Recipient,
		CreatedAt: m.SentAt,
		Status:    m.Status,
	}
}

// MessageStore persists and retrieves private messages. Implemented over
// PostgreSQL in internal/app/store; tests use an in-memory fake.
type MessageStore interface {
	// Save persists a new message. The caller assigns ID, SentAt and Status.
	Save(ctx context.Context, m *Message) error

	// Conversation returns all messages between a and b, in either direction,
	// ordered ascending by send time.
	Conversation(ctx context.Context, a, b string) ([]Message, error)

	// AdvanceStatus bulk-updates all messages from sender to recipient whose
	// status is strictly below target, and reports how many rows changed.
	// Status never regresses; re-applying is a no-op.
	AdvanceStatus(ctx context.Context, sender, recipient string, target Status) (int64, error)

	// UnreadCount counts messages from sender to recipient not yet read.
	UnreadCount(ctx context.Context, sender, recipient string) (int64, error)

	// Latest returns the most recent message between a and b in either
	// direction, or nil when the pair has no messages.
	Latest(ctx context.Context, a, b string) (*Message, error)
}
