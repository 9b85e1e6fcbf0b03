/*
Package store provides the PostgreSQL-backed persistence layer, implemented
over pgx. It satisfies the store interfaces consumed by the chat core and the
friend service.
*/
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wayfarer/internal/app/user"
)

// UserStore reads traveler accounts. The realtime subsystem never writes them.
type UserStore struct {
	pool *pgxpool.Pool
}

// NewUserStore constructs a UserStore over the shared pool.
func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

// FindByEmailOrUsername resolves an account by email or by username.
// Returns nil without error when no account matches.
func (s *UserStore) FindByEmailOrUsername(ctx context.Context, q string) (*user.User, error) {
	const query = `
		SELECT email, username, full_name, COALESCE(avatar_url, ''), role
		FROM users
		WHERE email = $1 OR username = $1`

	u := &user.User{}
	err := s.pool.QueryRow(ctx, query, q).Scan(&u.Email, &u.Username, &u.FullName, &u.AvatarURL, &u.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user %q: %w", q, err)
	}

	return u, nil
}
