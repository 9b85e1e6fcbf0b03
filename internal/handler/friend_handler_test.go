package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfarer/internal/app/chat"
	"wayfarer/internal/app/friend"
	"wayfarer/internal/app/user"
	"wayfarer/internal/configs"
	"wayfarer/internal/pkg/auth/jwt"
)

const handlerTestSecret = "handler-test-secret"

// memFriendStore is an in-memory friend.Store for endpoint tests.
type memFriendStore struct {
	nextID int64
	edges  map[int64]*friend.Friendship
}

func newMemFriendStore() *memFriendStore {
	return &memFriendStore{nextID: 1, edges: make(map[int64]*friend.Friendship)}
}

func (m *memFriendStore) Friends(_ context.Context, email string) ([]user.Profile, error) {
	var out []user.Profile
	for _, e := range m.edges {
		if e.Status == friend.StatusFriend && e.Touches(email) {
			out = append(out, e.Counterpart(email))
		}
	}
	return out, nil
}

func (m *memFriendStore) EdgesTouching(_ context.Context, emails []string) ([]friend.Friendship, error) {
	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		set[e] = struct{}{}
	}

	var out []friend.Friendship
	for _, e := range m.edges {
		if e.Status != friend.StatusFriend {
			continue
		}
		if _, ok := set[e.Requesting.UserID]; ok {
			out = append(out, *e)
			continue
		}
		if _, ok := set[e.Receiving.UserID]; ok {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memFriendStore) FindBetween(_ context.Context, a, b string, statuses ...friend.Status) (*friend.Friendship, error) {
	for _, e := range m.edges {
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

func (m *memFriendStore) FindByID(_ context.Context, id int64) (*friend.Friendship, error) {
	e, ok := m.edges[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (m *memFriendStore) Create(_ context.Context, requesting, receiving string, status friend.Status) (*friend.Friendship, error) {
	e := &friend.Friendship{
		ID:         m.nextID,
		Requesting: user.Profile{UserID: requesting, Username: requesting},
		Receiving:  user.Profile{UserID: receiving, Username: receiving},
		Status:     status,
	}
	m.edges[e.ID] = e
	m.nextID++
	return e, nil
}

func (m *memFriendStore) SetStatus(_ context.Context, id int64, status friend.Status, acceptedAt *time.Time) error {
	e := m.edges[id]
	e.Status = status
	e.AcceptedAt = acceptedAt
	return nil
}

func (m *memFriendStore) Delete(_ context.Context, id int64) error {
	delete(m.edges, id)
	return nil
}

func (m *memFriendStore) PendingFor(_ context.Context, email string) ([]friend.Friendship, error) {
	var out []friend.Friendship
	for _, e := range m.edges {
		if e.Status == friend.StatusPending && e.Receiving.UserID == email {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memFriendStore) BlockedBy(_ context.Context, email string) ([]user.Profile, error) {
	var out []user.Profile
	for _, e := range m.edges {
		if e.Status == friend.StatusLocked && e.Requesting.UserID == email {
			out = append(out, e.Receiving)
		}
	}
	return out, nil
}

// memUsers resolves accounts by email or username from a fixed set.
type memUsers struct {
	users []user.User
}

func (m *memUsers) FindByEmailOrUsername(_ context.Context, q string) (*user.User, error) {
	for i := range m.users {
		if m.users[i].Email == q || m.users[i].Username == q {
			cp := m.users[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func newTestServer(t *testing.T, accounts ...string) (*httptest.Server, *memFriendStore) {
	t.Helper()

	store := newMemFriendStore()
	users := &memUsers{}
	for _, email := range accounts {
		users.users = append(users.users, user.User{
			Email:    email,
			Username: strings.SplitN(email, "@", 2)[0],
			Role:     user.RoleUser,
		})
	}

	hub := chat.NewHub()
	deps := &AppDeps{
		Hub:      hub,
		Sessions: chat.NewInMemorySessionStore(),
		Friends:  friend.NewService(store, users, chat.NewNotifier(hub)),
		Verifier: NewJWTVerifier(handlerTestSecret),
		Config: &configs.AppConfig{
			Environment: "development",
			Port:        8080,
			JWTSecret:   handlerTestSecret,
		},
	}

	ts := httptest.NewServer(Router(deps))
	t.Cleanup(ts.Close)
	return ts, store
}

func bearerToken(t *testing.T, email string) string {
	t.Helper()

	token, err := jwt.GenerateToken(&jwt.Payload{
		UserID:   email,
		Username: strings.SplitN(email, "@", 2)[0],
		Role:     "user",
	}, handlerTestSecret, jwt.UserIdentityExpiration)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, method, url, token, body string) (*http.Response, JSONBody) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var decoded JSONBody
	require.NoError(t, json.NewDecoder(res.Body).Decode(&decoded))
	return res, decoded
}

// JSONBody mirrors resp.JSONResponse with an untyped data field.
type JSONBody struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func TestFriendEndpointsRequireIdentity(t *testing.T) {
	ts, _ := newTestServer(t)

	res, body := doJSON(t, "GET", ts.URL+"/api/friends", "", "")
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.NotZero(t, body.Code)
}

func TestFriendRequestLifecycleOverHTTP(t *testing.T) {
	ts, store := newTestServer(t, "ana@viaje.com", "beto@viaje.com")

	anaToken := bearerToken(t, "ana@viaje.com")
	betoToken := bearerToken(t, "beto@viaje.com")

	// ana sends beto a request.
	res, body := doJSON(t, "POST", ts.URL+"/api/friends/requests", anaToken,
		`{"to": "beto@viaje.com"}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Zero(t, body.Code)

	// Sending it again is rejected.
	res, body = doJSON(t, "POST", ts.URL+"/api/friends/requests", anaToken,
		`{"to": "beto@viaje.com"}`)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotZero(t, body.Code)

	// beto sees the pending request.
	res, body = doJSON(t, "GET", ts.URL+"/api/friends/requests", betoToken, "")
	require.Equal(t, http.StatusOK, res.StatusCode)

	var pending []struct {
		ID int64 `json:"ID"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &pending))
	require.Len(t, pending, 1)

	// beto accepts.
	res, body = doJSON(t, "POST",
		fmt.Sprintf("%s/api/friends/requests/%d/respond", ts.URL, pending[0].ID),
		betoToken, `{"action": "FRIEND"}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Zero(t, body.Code)

	// Both now list each other as friends.
	res, body = doJSON(t, "GET", ts.URL+"/api/friends", anaToken, "")
	require.Equal(t, http.StatusOK, res.StatusCode)

	var friends []user.Profile
	require.NoError(t, json.Unmarshal(body.Data, &friends))
	require.Len(t, friends, 1)
	assert.Equal(t, "beto@viaje.com", friends[0].UserID)

	edge, err := store.FindBetween(context.Background(), "ana@viaje.com", "beto@viaje.com")
	require.NoError(t, err)
	require.NotNil(t, edge)
	assert.Equal(t, friend.StatusFriend, edge.Status)
}

func TestSendFriendRequestValidation(t *testing.T) {
	ts, _ := newTestServer(t, "ana@viaje.com")
	anaToken := bearerToken(t, "ana@viaje.com")

	// missing body field
	res, body := doJSON(t, "POST", ts.URL+"/api/friends/requests", anaToken, `{}`)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotZero(t, body.Code)

	// unknown field is rejected by strict binding
	res, body = doJSON(t, "POST", ts.URL+"/api/friends/requests", anaToken,
		`{"to": "beto@viaje.com", "extra": true}`)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotZero(t, body.Code)

	// self request
	res, body = doJSON(t, "POST", ts.URL+"/api/friends/requests", anaToken,
		`{"to": "ana@viaje.com"}`)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotZero(t, body.Code)
}

func TestHealthEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	res, body := doJSON(t, "GET", ts.URL+"/health", "", "")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Zero(t, body.Code)
}
