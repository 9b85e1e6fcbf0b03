package friend

import (
	"context"
	"strings"
	"time"

	"wayfarer/internal/app/chat"
	"wayfarer/internal/app/user"
	"wayfarer/internal/pkg/logx"
)

func init() {
	logx.InitGlobalLogger(false)
}

// fakeStore is an in-memory Store mirroring the semantics of the PostgreSQL
// implementation.
type fakeStore struct {
	nextID int64
	edges  map[int64]*Friendship
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1, edges: make(map[int64]*Friendship)}
}

func (f *fakeStore) Friends(_ context.Context, email string) ([]user.Profile, error) {
	var out []user.Profile
	for _, e := range f.edges {
		if e.Status == StatusFriend && e.Touches(email) {
			out = append(out, e.Counterpart(email))
		}
	}
	return out, nil
}

func (f *fakeStore) EdgesTouching(_ context.Context, emails []string) ([]Friendship, error) {
	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		set[e] = struct{}{}
	}

	var out []Friendship
	for _, e := range f.edges {
		if e.Status != StatusFriend {
			continue
		}
		_, reqIn := set[e.Requesting.UserID]
		_, recIn := set[e.Receiving.UserID]
		if reqIn || recIn {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeStore) FindBetween(_ context.Context, a, b string, statuses ...Status) (*Friendship, error) {
	for _, e := range f.edges {
		pair := (e.Requesting.UserID == a && e.Receiving.UserID == b) ||
			(e.Requesting.UserID == b && e.Receiving.UserID == a)
		if !pair {
			continue
		}
		if len(statuses) == 0 {
			return e, nil
		}
		for _, st := range statuses {
			if e.Status == st {
				return e, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeStore) FindByID(_ context.Context, id int64) (*Friendship, error) {
	e, ok := f.edges[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (f *fakeStore) Create(_ context.Context, requesting, receiving string, status Status) (*Friendship, error) {
	e := &Friendship{
		ID:         f.nextID,
		Requesting: user.Profile{UserID: requesting, Username: localPart(requesting)},
		Receiving:  user.Profile{UserID: receiving, Username: localPart(receiving)},
		Status:     status,
	}
	f.edges[e.ID] = e
	f.nextID++
	return e, nil
}

func (f *fakeStore) SetStatus(_ context.Context, id int64, status Status, acceptedAt *time.Time) error {
	e := f.edges[id]
	e.Status = status
	e.AcceptedAt = acceptedAt
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id int64) error {
	delete(f.edges, id)
	return nil
}

func (f *fakeStore) PendingFor(_ context.Context, email string) ([]Friendship, error) {
	var out []Friendship
	for _, e := range f.edges {
		if e.Status == StatusPending && e.Receiving.UserID == email {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeStore) BlockedBy(_ context.Context, email string) ([]user.Profile, error) {
	var out []user.Profile
	for _, e := range f.edges {
		if e.Status == StatusLocked && e.Requesting.UserID == email {
			out = append(out, e.Receiving)
		}
	}
	return out, nil
}

// addFriendEdge seeds an accepted friendship directly.
func (f *fakeStore) addFriendEdge(a, b string) {
	e := &Friendship{
		ID:         f.nextID,
		Requesting: user.Profile{UserID: a, Username: localPart(a)},
		Receiving:  user.Profile{UserID: b, Username: localPart(b)},
		Status:     StatusFriend,
	}
	f.edges[e.ID] = e
	f.nextID++
}

func localPart(email string) string {
	if i := strings.IndexByte(email, '@'); i >= 0 {
		return email[:i]
	}
	return email
}

// fakeUsers resolves accounts by email or username from a fixed set.
type fakeUsers struct {
	users []user.User
}

func (f *fakeUsers) FindByEmailOrUsername(_ context.Context, q string) (*user.User, error) {
	for i := range f.users {
		if f.users[i].Email == q || f.users[i].Username == q {
			cp := f.users[i]
			return &cp, nil
		}
	}
	return nil, nil
}

// recordingNotifier captures every notification a test run produces.
type recordingNotifier struct {
	sent []sentNotification
}

type sentNotification struct {
	userID string
	input  chat.NotificationInput
}

func (n *recordingNotifier) Notify(userID string, input chat.NotificationInput) {
	n.sent = append(n.sent, sentNotification{userID: userID, input: input})
}

func account(email string) user.User {
	return user.User{Email: email, Username: localPart(email), Role: user.RoleUser}
}
