package chat

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"wayfarer/internal/app/user"
	"wayfarer/internal/pkg/logx"
)

func init() {
	logx.InitGlobalLogger(false)
}

// fakeFriends is an in-memory FriendLister keyed by user ID.
type fakeFriends struct {
	friends map[string][]user.Profile
}

func (f *fakeFriends) Friends(_ context.Context, userID string) ([]user.Profile, error) {
	return f.friends[userID], nil
}

// fakeMessageStore is an in-memory MessageStore mirroring the semantics of
// the PostgreSQL implementation.
type fakeMessageStore struct {
	mu   sync.Mutex
	msgs []Message
}

func (f *fakeMessageStore) Save(_ context.Context, m *Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, *m)
	return nil
}

func (f *fakeMessageStore) Conversation(_ context.Context, a, b string) ([]Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Message
	for _, m := range f.msgs {
		if (m.Sender == a && m.Recipient == b) || (m.Sender == b && m.Recipient == a) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SentAt.Before(out[j].SentAt) })
	return out, nil
}

func (f *fakeMessageStore) AdvanceStatus(_ context.Context, sender, recipient string, target Status) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var updated int64
	for i := range f.msgs {
		m := &f.msgs[i]
		if m.Sender == sender && m.Recipient == recipient && m.Status < target {
			m.Status = target
			updated++
		}
	}
	return updated, nil
}

func (f *fakeMessageStore) UnreadCount(_ context.Context, sender, recipient string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for _, m := range f.msgs {
		if m.Sender == sender && m.Recipient == recipient && m.Status < StatusRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeMessageStore) Latest(_ context.Context, a, b string) (*Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var latest *Message
	for i := range f.msgs {
		m := f.msgs[i]
		if (m.Sender == a && m.Recipient == b) || (m.Sender == b && m.Recipient == a) {
			if latest == nil || m.SentAt.After(latest.SentAt) {
				latest = &m
			}
		}
	}
	return latest, nil
}

// newTestClient builds a client that never runs its pumps; tests observe
// emissions by draining the send channel directly.
func newTestClient(hub *Hub, sess Session) *Client {
	return NewClient(hub, nil, nil, nil, sess)
}

// recvEvent pops the next queued envelope, failing the test if none is queued.
func recvEvent(t *testing.T, c *Client) Envelope {
	t.Helper()

	select {
	case b := <-c.send:
		var env Envelope
		require.NoError(t, json.Unmarshal(b, &env))
		return env
	default:
		t.Fatal("expected a queued event, send channel is empty")
		return Envelope{}
	}
}

// requireNoEvent asserts that nothing is queued for the client.
func requireNoEvent(t *testing.T, c *Client) {
	t.Helper()

	select {
	case b := <-c.send:
		t.Fatalf("expected no queued event, got: %s", b)
	default:
	}
}

func decodeData[T any](t *testing.T, env Envelope) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func profile(id, username string) user.Profile {
	return user.Profile{UserID: id, Username: username}
}

func at(sec int) time.Time {
	return time.Date(2025, time.June, 1, 12, 0, sec, 0, time.UTC)
}
