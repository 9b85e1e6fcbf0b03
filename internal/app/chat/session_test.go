package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStoreFindSaveAll(t *testing.T) {
	store := NewInMemorySessionStore()

	_, ok := store.Find("missing")
	assert.False(t, ok)

	sess := Session{SessionID: "abc123", UserID: "ana@viaje.com", Username: "ana", Connected: true}
	store.Save(sess)

	got, ok := store.Find("abc123")
	require.True(t, ok)
	assert.Equal(t, sess, got)

	// Saving again with the same ID replaces the record.
	sess.Connected = false
	store.Save(sess)

	got, ok = store.Find("abc123")
	require.True(t, ok)
	assert.False(t, got.Connected)

	store.Save(Session{SessionID: "def456", UserID: "beto@viaje.com", Username: "beto"})
	assert.Len(t, store.All(), 2)
}

func TestIsUserConnected(t *testing.T) {
	store := NewInMemorySessionStore()

	assert.False(t, IsUserConnected(store, "ana@viaje.com"))

	// A disconnected session does not count.
	store.Save(Session{SessionID: "s1", UserID: "ana@viaje.com", Username: "ana", Connected: false})
	assert.False(t, IsUserConnected(store, "ana@viaje.com"))

	// Any connected session of the user does, even alongside stale ones.
	store.Save(Session{SessionID: "s2", UserID: "ana@viaje.com", Username: "ana", Connected: true})
	assert.True(t, IsUserConnected(store, "ana@viaje.com"))

	assert.False(t, IsUserConnected(store, "beto@viaje.com"))
}
