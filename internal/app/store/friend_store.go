package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wayfarer/internal/app/db"
	"wayfarer/internal/app/friend"
	"wayfarer/internal/app/user"
)

// FriendStore persists friendship edges. It satisfies friend.Store and the
// chat core's FriendLister.
//
// All filters go through relationship joins rather than raw foreign-key
// column matching, so the queries hold regardless of column naming.
type FriendStore struct {
	pool *pgxpool.Pool
}

// NewFriendStore constructs a FriendStore over the shared pool.
func NewFriendStore(pool *pgxpool.Pool) *FriendStore {
	return &FriendStore{pool: pool}
}

// Friends returns the accepted-friend profiles of the user. The user may be
// either endpoint of the edge; the query selects the counterpart.
func (s *FriendStore) Friends(ctx context.Context, email string) ([]user.Profile, error) {
	const query = `
		SELECT u.email, u.username, COALESCE(u.avatar_url, '')
		FROM friendships f
		JOIN users u
		  ON u.email = CASE WHEN f.requesting_user = $1 THEN f.receiving_user ELSE f.requesting_user END
		WHERE (f.requesting_user = $1 OR f.receiving_user = $1)
		  AND f.status = $2`

	rows, err := s.pool.Query(ctx, query, email, int16(friend.StatusFriend))
	if err != nil {
		return nil, fmt.Errorf("query friends of %s: %w", email, err)
	}
	defer rows.Close()

	var out []user.Profile
	for rows.Next() {
		var p user.Profile
		if err := rows.Scan(&p.UserID, &p.Username, &p.AvatarURL); err != nil {
			return nil, fmt.Errorf("scan friend row: %w", err)
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

// EdgesTouching returns every accepted edge having any of the given users as
// an endpoint, with both endpoint profiles loaded.
func (s *FriendStore) EdgesTouching(ctx context.Context, emails []string) ([]friend.Friendship, error) {
	const query = `
		SELECT f.id, f.status, f.accepted_at,
		       ru.email, ru.username, COALESCE(ru.avatar_url, ''),
		       cu.email, cu.username, COALESCE(cu.avatar_url, '')
		FROM friendships f
		JOIN users ru ON ru.email = f.requesting_user
		JOIN users cu ON cu.email = f.receiving_user
		WHERE f.status = $2
		  AND (f.requesting_user = ANY($1) OR f.receiving_user = ANY($1))`

	rows, err := s.pool.Query(ctx, query, emails, int16(friend.StatusFriend))
	if err != nil {
		return nil, fmt.Errorf("query edges touching %d users: %w", len(emails), err)
	}
	defer rows.Close()

	return scanFriendships(rows)
}

// FindBetween returns the edge between the two users in either direction.
// Returns nil without error when no edge matches.
func (s *FriendStore) FindBetween(ctx context.Context, a, b string, statuses ...friend.Status) (*friend.Friendship, error) {
	query := `
		SELECT f.id, f.status, f.accepted_at,
		       ru.email, ru.username, COALESCE(ru.avatar_url, ''),
		       cu.email, cu.username, COALESCE(cu.avatar_url, '')
		FROM friendships f
		JOIN users ru ON ru.email = f.requesting_user
		JOIN users cu ON cu.email = f.receiving_user
		WHERE ((f.requesting_user = $1 AND f.receiving_user = $2)
		    OR (f.requesting_user = $2 AND f.receiving_user = $1))`

	args := []any{a, b}
	if len(statuses) > 0 {
		query += ` AND f.status = ANY($3)`
		statusInts := make([]int16, 0, len(statuses))
		for _, st := range statuses {
			statusInts = append(statusInts, int16(st))
		}
		args = append(args, statusInts)
	}
	query += ` LIMIT 1`

	return s.findOne(ctx, query, args...)
}

// FindByID returns the edge with the given ID, or nil if none exists.
func (s *FriendStore) FindByID(ctx context.Context, id int64) (*friend.Friendship, error) {
	const query = `
		SELECT f.id, f.status, f.accepted_at,
		       ru.email, ru.username, COALESCE(ru.avatar_url, ''),
		       cu.email, cu.username, COALESCE(cu.avatar_url, '')
		FROM friendships f
		JOIN users ru ON ru.email = f.requesting_user
		JOIN users cu ON cu.email = f.receiving_user
		WHERE f.id = $1`

	return s.findOne(ctx, query, id)
}

// Create inserts a new edge and returns it with endpoint profiles loaded.
func (s *FriendStore) Create(ctx context.Context, requesting, receiving string, status friend.Status) (*friend.Friendship, error) {
	const query = `
		INSERT INTO friendships (requesting_user, receiving_user, status)
		VALUES ($1, $2, $3)
		RETURNING id`

	var id int64
	if err := s.pool.QueryRow(ctx, query, requesting, receiving, int16(status)).Scan(&id); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, friend.ErrEdgeExists
		}
		return nil, fmt.Errorf("insert friendship %s -> %s: %w", requesting, receiving, err)
	}

	return s.FindByID(ctx, id)
}

// SetStatus updates the edge's status and acceptance date.
func (s *FriendStore) SetStatus(ctx context.Context, id int64, status friend.Status, acceptedAt *time.Time) error {
	const query = `UPDATE friendships SET status = $2, accepted_at = $3 WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query, id, int16(status), acceptedAt)
	if err != nil {
		return fmt.Errorf("update friendship %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update friendship %d: no such edge", id)
	}
	return nil
}

// Delete removes the edge.
func (s *FriendStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM friendships WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete friendship %d: %w", id, err)
	}
	return nil
}

// PendingFor returns the unanswered requests the user has received.
func (s *FriendStore) PendingFor(ctx context.Context, email string) ([]friend.Friendship, error) {
	const query = `
		SELECT f.id, f.status, f.accepted_at,
		       ru.email, ru.username, COALESCE(ru.avatar_url, ''),
		       cu.email, cu.username, COALESCE(cu.avatar_url, '')
		FROM friendships f
		JOIN users ru ON ru.email = f.requesting_user
		JOIN users cu ON cu.email = f.receiving_user
		WHERE f.receiving_user = $1 AND f.status = $2`

	rows, err := s.pool.Query(ctx, query, email, int16(friend.StatusPending))
	if err != nil {
		return nil, fmt.Errorf("query pending requests for %s: %w", email, err)
	}
	defer rows.Close()

	return scanFriendships(rows)
}

// BlockedBy returns the profiles the user has blocked. Only edges where the
// user is the requester count; being blocked does not show the other side.
func (s *FriendStore) BlockedBy(ctx context.Context, email string) ([]user.Profile, error) {
	const query = `
		SELECT u.email, u.username, COALESCE(u.avatar_url, '')
		FROM friendships f
		JOIN users u ON u.email = f.receiving_user
		WHERE f.requesting_user = $1 AND f.status = $2`

	rows, err := s.pool.Query(ctx, query, email, int16(friend.StatusLocked))
	if err != nil {
		return nil, fmt.Errorf("query blocked users of %s: %w", email, err)
	}
	defer rows.Close()

	var out []user.Profile
	for rows.Next() {
		var p user.Profile
		if err := rows.Scan(&p.UserID, &p.Username, &p.AvatarURL); err != nil {
			return nil, fmt.Errorf("scan blocked row: %w", err)
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

func (s *FriendStore) findOne(ctx context.Context, query string, args ...any) (*friend.Friendship, error) {
	row := s.pool.QueryRow(ctx, query, args...)

	f, err := scanFriendship(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan friendship: %w", err)
	}
	return f, nil
}

func scanFriendship(row pgx.Row) (*friend.Friendship, error) {
	f := &friend.Friendship{}
	err := row.Scan(
		&f.ID, &f.Status, &f.AcceptedAt,
		&f.Requesting.UserID, &f.Requesting.Username, &f.Requesting.AvatarURL,
		&f.Receiving.UserID, &f.Receiving.Username, &f.Receiving.AvatarURL,
	)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func scanFriendships(rows pgx.Rows) ([]friend.Friendship, error) {
	var out []friend.Friendship
	for rows.Next() {
		f, err := scanFriendship(rows)
		if err != nil {
			return nil, fmt.Errorf("scan friendship row: %w", err)
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}
