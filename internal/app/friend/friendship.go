/*
Package friend implements the friendship graph: requests, acceptance,
blocking, and friend-of-friends suggestions. Accepted friendships drive the
presence scope of the realtime core.
*/
package friend

import (
	"context"
	"errors"
	"time"

	"wayfarer/internal/app/user"
)

// ErrEdgeExists reports a unique-constraint conflict on edge creation. Stores
// return it so services can translate the check-then-create race into a
// business error.
var ErrEdgeExists = errors.New("friendship edge already exists")

// Status is the lifecycle state of a friendship edge.
type Status int16

const (
	StatusPending  Status = 0
	StatusFriend   Status = 1
	StatusRejected Status = 2
	StatusLocked   Status = 3
)

// Friendship is one directional edge of the friend graph. Once the status is
// StatusFriend the edge is symmetric: either endpoint may be "me".
type Friendship struct {
	ID         int64
	Requesting user.Profile
	Receiving  user.Profile
	Status     Status
	AcceptedAt *time.Time
}

// Counterpart returns the endpoint of the edge that is not me.
// It assumes the edge touches me; callers query edges by membership.
func (f Friendship) Counterpart(me string) user.Profile {
	if f.Requesting.UserID == me {
		return f.Receiving
	}
	return f.Requesting
}

// Touches reports whether the edge has me as either endpoint.
func (f Friendship) Touches(me string) bool {
	return f.Requesting.UserID == me || f.Receiving.UserID == me
}

// Store is the persistence surface of the friend graph.
type Store interface {
	// Friends returns the accepted-friend profiles of the user, regardless of
	// request direction.
	Friends(ctx context.Context, email string) ([]user.Profile, error)

	// EdgesTouching returns every accepted edge that has any of the given
	// users as an endpoint.
	EdgesTouching(ctx context.Context, emails []string) ([]Friendship, error)

	// FindBetween returns the edge between the two users in either direction,
	// optionally filtered to the given statuses, or nil if none exists.
	FindBetween(ctx context.Context, a, b string, statuses ...Status) (*Friendship, error)

	// FindByID returns the edge with the given ID, or nil if none exists.
	FindByID(ctx context.Context, id int64) (*Friendship, error)

	// Create inserts a new edge from requesting to receiving.
	Create(ctx context.Context, requesting, receiving string, status Status) (*Friendship, error)

	// SetStatus updates the edge's status and accepted-at date.
	SetStatus(ctx context.Context, id int64, status Status, acceptedAt *time.Time) error

	// Delete removes the edge.
	Delete(ctx context.Context, id int64) error

	// PendingFor returns the requests the user has received and not answered.
	PendingFor(ctx context.Context, email string) ([]Friendship, error)

	// BlockedBy returns the profiles the user has blocked.
	BlockedBy(ctx context.Context, email string) ([]user.Profile, error)
}

// UserStore resolves traveler accounts; requests may name a user by email or
// by username.
type UserStore interface {
	FindByEmailOrUsername(ctx context.Context, q string) (*user.User, error)
}
