package friend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfarer/internal/app/chat"
	"wayfarer/internal/pkg/errs"
)

func newServiceFixture(accounts ...string) (*fakeStore, *recordingNotifier, *Service) {
	store := newFakeStore()
	notifier := &recordingNotifier{}

	users := &fakeUsers{}
	for _, email := range accounts {
		users.users = append(users.users, account(email))
	}

	return store, notifier, NewService(store, users, notifier)
}

func TestSendRequestCreatesPendingAndNotifies(t *testing.T) {
	ctx := context.Background()
	store, notifier, svc := newServiceFixture("ana@viaje.com", "beto@viaje.com")

	created, customErr := svc.SendRequest(ctx, "ana@viaje.com", "beto@viaje.com")
	require.Nil(t, customErr)
	require.NotNil(t, created)
	assert.Equal(t, StatusPending, created.Status)
	assert.Equal(t, "ana@viaje.com", created.Requesting.UserID)
	assert.Equal(t, "beto@viaje.com", created.Receiving.UserID)

	pending, err := store.PendingFor(ctx, "beto@viaje.com")
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "beto@viaje.com", notifier.sent[0].userID)
	assert.Equal(t, chat.NotificationFriendRequest, notifier.sent[0].input.Type)
}

func TestSendRequestAcceptsUsernames(t *testing.T) {
	ctx := context.Background()
	_, notifier, svc := newServiceFixture("ana@viaje.com", "beto@viaje.com")

	created, customErr := svc.SendRequest(ctx, "ana", "beto")
	require.Nil(t, customErr)
	assert.Equal(t, "ana@viaje.com", created.Requesting.UserID)
	assert.Equal(t, "beto@viaje.com", created.Receiving.UserID)
	assert.Len(t, notifier.sent, 1)
}

func TestSendRequestRejectsSelf(t *testing.T) {
	ctx := context.Background()
	_, _, svc := newServiceFixture("ana@viaje.com")

	_, customErr := svc.SendRequest(ctx, "ana@viaje.com", "ana@viaje.com")
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrSelfFriendRequest, customErr.Code)

	// Same account reached through its username is still self.
	_, customErr = svc.SendRequest(ctx, "ana@viaje.com", "ana")
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrSelfFriendRequest, customErr.Code)
}

func TestSendRequestRejectsUnknownUser(t *testing.T) {
	_, _, svc := newServiceFixture("ana@viaje.com")

	_, customErr := svc.SendRequest(context.Background(), "ana@viaje.com", "fantasma@viaje.com")
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrUserNotFound, customErr.Code)
}

func TestSendRequestRejectsExistingEdges(t *testing.T) {
	ctx := context.Background()
	store, notifier, svc := newServiceFixture("ana@viaje.com", "beto@viaje.com", "caro@viaje.com")

	store.addFriendEdge("ana@viaje.com", "beto@viaje.com")
	_, customErr := svc.SendRequest(ctx, "ana@viaje.com", "beto@viaje.com")
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrAlreadyFriends, customErr.Code)

	// A pending request in either direction blocks a duplicate.
	_, customErr = svc.SendRequest(ctx, "ana@viaje.com", "caro@viaje.com")
	require.Nil(t, customErr)
	notifier.sent = nil

	_, customErr = svc.SendRequest(ctx, "caro@viaje.com", "ana@viaje.com")
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrFriendRequestExists, customErr.Code)
	assert.Empty(t, notifier.sent)
}

func TestCancelRequest(t *testing.T) {
	ctx := context.Background()
	store, _, svc := newServiceFixture("ana@viaje.com", "beto@viaje.com")

	_, customErr := svc.SendRequest(ctx, "ana@viaje.com", "beto@viaje.com")
	require.Nil(t, customErr)

	require.Nil(t, svc.CancelRequest(ctx, "ana@viaje.com", "beto@viaje.com"))

	pending, _ := store.PendingFor(ctx, "beto@viaje.com")
	assert.Empty(t, pending)

	customErr = svc.CancelRequest(ctx, "ana@viaje.com", "beto@viaje.com")
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrFriendRequestNotFound, customErr.Code)
}

func TestRespondAccept(t *testing.T) {
	ctx := context.Background()
	store, notifier, svc := newServiceFixture("ana@viaje.com", "beto@viaje.com")

	created, _ := svc.SendRequest(ctx, "ana@viaje.com", "beto@viaje.com")
	notifier.sent = nil

	accepted, customErr := svc.Respond(ctx, created.ID, ActionFriend)
	require.Nil(t, customErr)
	assert.Equal(t, StatusFriend, accepted.Status)
	require.NotNil(t, accepted.AcceptedAt)

	// The requester gets notified, not the responder.
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "ana@viaje.com", notifier.sent[0].userID)
	assert.Equal(t, chat.NotificationFriendAccepted, notifier.sent[0].input.Type)

	friends, _ := store.Friends(ctx, "ana@viaje.com")
	require.Len(t, friends, 1)
	assert.Equal(t, "beto@viaje.com", friends[0].UserID)
}

func TestRespondReject(t *testing.T) {
	ctx := context.Background()
	store, notifier, svc := newServiceFixture("ana@viaje.com", "beto@viaje.com")

	created, _ := svc.SendRequest(ctx, "ana@viaje.com", "beto@viaje.com")
	notifier.sent = nil

	rejected, customErr := svc.Respond(ctx, created.ID, ActionReject)
	require.Nil(t, customErr)
	assert.Equal(t, StatusRejected, rejected.Status)
	assert.Nil(t, rejected.AcceptedAt)
	assert.Empty(t, notifier.sent)

	friends, _ := store.Friends(ctx, "ana@viaje.com")
	assert.Empty(t, friends)
}

func TestRespondUnknownRequest(t *testing.T) {
	_, _, svc := newServiceFixture()

	_, customErr := svc.Respond(context.Background(), 999, ActionFriend)
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrFriendRequestNotFound, customErr.Code)
}

func TestSearchFriends(t *testing.T) {
	ctx := context.Background()
	store, _, svc := newServiceFixture("ana@viaje.com")

	store.addFriendEdge("ana@viaje.com", "beto@viaje.com")
	store.addFriendEdge("ana@viaje.com", "bernarda@viaje.com")
	store.addFriendEdge("ana@viaje.com", "caro@viaje.com")

	matched, customErr := svc.SearchFriends(ctx, "ana@viaje.com", "BE")
	require.Nil(t, customErr)
	require.Len(t, matched, 2)

	matched, customErr = svc.SearchFriends(ctx, "ana@viaje.com", "zzz")
	require.Nil(t, customErr)
	assert.Empty(t, matched)
}

func TestRemoveFriend(t *testing.T) {
	ctx := context.Background()
	store, _, svc := newServiceFixture("ana@viaje.com", "beto@viaje.com")

	store.addFriendEdge("ana@viaje.com", "beto@viaje.com")

	require.Nil(t, svc.RemoveFriend(ctx, "beto@viaje.com", "ana@viaje.com"))

	friends, _ := store.Friends(ctx, "ana@viaje.com")
	assert.Empty(t, friends)

	customErr := svc.RemoveFriend(ctx, "beto@viaje.com", "ana@viaje.com")
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrNotFriends, customErr.Code)
}

func TestBlockAndUnblock(t *testing.T) {
	ctx := context.Background()
	store, _, svc := newServiceFixture("ana@viaje.com", "beto@viaje.com")

	store.addFriendEdge("ana@viaje.com", "beto@viaje.com")

	blocked, customErr := svc.Block(ctx, "ana@viaje.com", "beto@viaje.com")
	require.Nil(t, customErr)
	assert.Equal(t, StatusLocked, blocked.Status)

	// A locked edge disappears from friend lists.
	friends, _ := store.Friends(ctx, "beto@viaje.com")
	assert.Empty(t, friends)

	list, customErr := svc.ListBlocked(ctx, "ana@viaje.com")
	require.Nil(t, customErr)
	require.Len(t, list, 1)
	assert.Equal(t, "beto@viaje.com", list[0].UserID)

	restored, customErr := svc.Unblock(ctx, "ana@viaje.com", "beto@viaje.com")
	require.Nil(t, customErr)
	assert.Equal(t, StatusFriend, restored.Status)

	friends, _ = store.Friends(ctx, "beto@viaje.com")
	assert.Len(t, friends, 1)
}

func TestBlockStranger(t *testing.T) {
	ctx := context.Background()
	_, _, svc := newServiceFixture("ana@viaje.com", "beto@viaje.com")

	blocked, customErr := svc.Block(ctx, "ana@viaje.com", "beto@viaje.com")
	require.Nil(t, customErr)
	assert.Equal(t, StatusLocked, blocked.Status)
}

func TestUnblockWithoutLock(t *testing.T) {
	ctx := context.Background()
	store, _, svc := newServiceFixture("ana@viaje.com", "beto@viaje.com")

	store.addFriendEdge("ana@viaje.com", "beto@viaje.com")

	_, customErr := svc.Unblock(ctx, "ana@viaje.com", "beto@viaje.com")
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrUserNotBlocked, customErr.Code)
}
