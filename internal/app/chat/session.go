package chat

import (
	"context"
	"sync"

	"wayfarer/internal/app/user"
)

// Session is a logical identity binding for one authenticated connection
// lineage. It survives reconnects via its opaque SessionID. Sessions live in
// process memory only; a restart invalidates all of them.
type Session struct {
	SessionID string
	UserID    string
	Username  string
	Connected bool
}

// SessionStore is the process-wide session directory. A user may hold several
// sessions at once (one per tab); each is keyed by its own SessionID.
type SessionStore interface {
	Find(sessionID string) (Session, bool)
	Save(sess Session)
	All() []Session
}

// InMemorySessionStore is the default SessionStore. Safe for concurrent use.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewInMemorySessionStore returns an empty session directory.
func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		sessions: make(map[string]Session),
	}
}

// Find looks up a session by its opaque ID.
func (s *InMemorySessionStore) Find(sessionID string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	return sess, ok
}

// Save stores or replaces the session record keyed by its SessionID.
func (s *InMemorySessionStore) Save(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.SessionID] = sess
}

// All returns a snapshot of every known session.
func (s *InMemorySessionStore) All() []Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	return out
}

// IsUserConnected reports whether any session of the given user is connected.
func IsUserConnected(store SessionStore, userID string) bool {
	for _, sess := range store.All() {
		if sess.UserID == userID && sess.Connected {
			return true
		}
	}
	return false
}

// Identity is the decoded result of verifying a caller-supplied credential.
type Identity struct {
	UserID   string
	Username string
	Role     string
}

// TokenVerifier checks a bearer token and returns the identity it encodes.
// The concrete implementation belongs to the account service; the realtime
// core only consumes the capability.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// FriendLister answers which travelers hold an accepted friendship with the
// given user, regardless of who sent the original request.
type FriendLister interface {
	Friends(ctx context.Context, userID string) ([]user.Profile, error)
}
