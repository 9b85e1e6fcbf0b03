package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wayfarer/internal/app/chat"
)

// MessageStore persists private messages. It satisfies chat.MessageStore.
type MessageStore struct {
	pool *pgxpool.Pool
}

// NewMessageStore constructs a MessageStore over the shared pool.
func NewMessageStore(pool *pgxpool.Pool) *MessageStore {
	return &MessageStore{pool: pool}
}

// Save inserts a new message. ID, SentAt and Status are caller-assigned.
func (s *MessageStore) Save(ctx context.Context, m *chat.Message) error {
	const query = `
		INSERT INTO messages (id, sender, recipient, content, sent_at, status)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.pool.Exec(ctx, query, m.ID, m.Sender, m.Recipient, m.Content, m.SentAt, int16(m.Status))
	if err != nil {
		return fmt.Errorf("insert message %s: %w", m.ID, err)
	}
	return nil
}

// Conversation returns all messages between a and b, in either direction,
// ordered ascending by send time.
func (s *MessageStore) Conversation(ctx context.Context, a, b string) ([]chat.Message, error) {
	const query = `
		SELECT id, sender, recipient, content, sent_at, status
		FROM messages
		WHERE (sender = $1 AND recipient = $2)
		   OR (sender = $2 AND recipient = $1)
		ORDER BY sent_at ASC`

	rows, err := s.pool.Query(ctx, query, a, b)
	if err != nil {
		return nil, fmt.Errorf("query conversation %s/%s: %w", a, b, err)
	}
	defer rows.Close()

	var out []chat.Message
	for rows.Next() {
		var m chat.Message
		if err := rows.Scan(&m.ID, &m.Sender, &m.Recipient, &m.Content, &m.SentAt, &m.Status); err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		out = append(out, m)
	}

	return out, rows.Err()
}

// AdvanceStatus bulk-updates messages from sender to recipient whose status
// is strictly below target. The filter makes the operation monotonic and
// idempotent: nothing ever moves backwards, and re-running changes no rows.
func (s *MessageStore) AdvanceStatus(ctx context.Context, sender, recipient string, target chat.Status) (int64, error) {
	const query = `
		UPDATE messages SET status = $3
		WHERE sender = $1 AND recipient = $2 AND status < $3`

	tag, err := s.pool.Exec(ctx, query, sender, recipient, int16(target))
	if err != nil {
		return 0, fmt.Errorf("advance status %s -> %s: %w", sender, recipient, err)
	}
	return tag.RowsAffected(), nil
}

// UnreadCount counts messages from sender to recipient still below READ.
func (s *MessageStore) UnreadCount(ctx context.Context, sender, recipient string) (int64, error) {
	const query = `
		SELECT count(*) FROM messages
		WHERE sender = $1 AND recipient = $2 AND status < $3`

	var count int64
	if err := s.pool.QueryRow(ctx, query, sender, recipient, int16(chat.StatusRead)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unread %s -> %s: %w", sender, recipient, err)
	}
	return count, nil
}

// Latest returns the most recent message between a and b in either direction,
// or nil when the pair has no messages.
func (s *MessageStore) Latest(ctx context.Context, a, b string) (*chat.Message, error) {
	const query = `
		SELECT id, sender, recipient, content, sent_at, status
		FROM messages
		WHERE (sender = $1 AND recipient = $2)
		   OR (sender = $2 AND recipient = $1)
		ORDER BY sent_at DESC
		LIMIT 1`

	m := &chat.Message{}
	err := s.pool.QueryRow(ctx, query, a, b).Scan(&m.ID, &m.Sender, &m.Recipient, &m.Content, &m.SentAt, &m.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest message %s/%s: %w", a, b, err)
	}
	return m, nil
}
