package chat

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"wayfarer/internal/pkg/logx"
	"wayfarer/internal/pkg/randx"
)

// MessageService implements the private-message state machine: persistence,
// the monotonic SENT -> DELIVERED -> READ lifecycle, history retrieval and
// the friend/chat list.
type MessageService struct {
	hub      *Hub
	sessions SessionStore
	friends  FriendLister
	messages MessageStore

	// now is swappable for tests.
	now func() time.Time

	logger zerolog.Logger
}

// NewMessageService constructs a MessageService.
func NewMessageService(hub *Hub, sessions SessionStore, friends FriendLister, messages MessageStore) *MessageService {
	return &MessageService{
		hub:      hub,
		sessions: sessions,
		friends:  friends,
		messages: messages,
		now:      time.Now,
		logger:   logx.Component("messages"),
	}
}

// SendPrivate persists a new message with status SENT and then emits it to
// both the recipient's and the sender's rooms, so every open tab of either
// side converges on the same message list.
//
// The timestamp is taken at persistence time, never from the client.
// Persist-then-broadcast is not transactional: a crash in between leaves the
// message stored but unannounced, and history fetches will still return it.
func (s *MessageService) SendPrivate(ctx context.Context, from, to, content string) error {
	msg := &Message{
		ID:        randx.MessageID(),
		Content:   content,
		Sender:    from,
		Recipient: to,
		SentAt:    s.now(),
		Status:    StatusSent,
	}

	if err := s.messages.Save(ctx, msg); err != nil {
		return fmt.Errorf("save private message: %w", err)
	}

	wire := msg.Wire()
	s.hub.Emit(to, EventPrivateMessage, wire)
	s.hub.Emit(from, EventPrivateMessage, wire)

	return nil
}

// MarkStatus advances all messages from counterpart to me whose status is
// strictly below target, then signals the counterpart's room so their UI can
// update its ticks. Idempotent: with nothing left below target, no rows
// change and the signal is still emitted.
func (s *MessageService) MarkStatus(ctx context.Context, me, counterpart string, target Status) error {
	updated, err := s.messages.AdvanceStatus(ctx, counterpart, me, target)
	if err != nil {
		return fmt.Errorf("advance message status: %w", err)
	}

	if updated > 0 {
		s.logger.Debug().
			Int64("updated", updated).
			Int16("target_status", int16(target)).
			Msg("Advanced message statuses")
	}

	event := EventMessageReceived
	if target == StatusRead {
		event = EventMessagesRead
	}

	s.hub.Emit(counterpart, event, StatusSignal{ByUserID: me})

	return nil
}

// History returns every message between me and the counterpart, in either
// direction, strictly ordered by ascending send time.
func (s *MessageService) History(ctx context.Context, me, withUserID string) ([]WireMessage, error) {
	msgs, err := s.messages.Conversation(ctx, me, withUserID)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}

	out := make([]WireMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Wire())
	}
	return out, nil
}

// ChatList builds the friend/chat list: one entry per accepted friend with
// their connected flag, the most recent message of the pair and the count of
// messages from them not yet read. Entries are ordered most-recent first;
// pairs without messages sort last.
func (s *MessageService) ChatList(ctx context.Context, me string) ([]ChatListEntry, error) {
	friends, err := s.friends.Friends(ctx, me)
	if err != nil {
		return nil, fmt.Errorf("load friends: %w", err)
	}

	entries := make([]ChatListEntry, 0, len(friends))

	for _, friend := range friends {
		entry := ChatListEntry{
			Profile:   friend,
			Connected: IsUserConnected(s.sessions, friend.UserID),
		}

		unread, err := s.messages.UnreadCount(ctx, friend.UserID, me)
		if err != nil {
			return nil, fmt.Errorf("count unread for %s: %w", friend.UserID, err)
		}
		entry.UnreadCount = unread

		last, err := s.messages.Latest(ctx, me, friend.UserID)
		if err != nil {
			return nil, fmt.Errorf("load latest message for %s: %w", friend.UserID, err)
		}
		if last != nil {
			content := last.Content
			sentAt := last.SentAt
			entry.LastMessage = &content
			entry.LastMessageAt = &sentAt
		}

		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return lastMessageTime(entries[i]).After(lastMessageTime(entries[j]))
	})

	return entries, nil
}

// lastMessageTime keys the recency sort; a pair without messages counts as
// epoch zero and therefore lands at the end of the list.
func lastMessageTime(e ChatListEntry) time.Time {
	if e.LastMessageAt == nil {
		return time.Time{}
	}
	return *e.LastMessageAt
}
