package chat

import (
	"context"

	"github.com/rs/zerolog"

	"wayfarer/internal/pkg/logx"
)

// Presence broadcasts online/offline transitions into friends' rooms.
// Signals are scoped to the user's accepted friendships, never global.
type Presence struct {
	hub      *Hub
	sessions SessionStore
	friends  FriendLister

	logger zerolog.Logger
}

// NewPresence constructs a Presence broadcaster.
func NewPresence(hub *Hub, sessions SessionStore, friends FriendLister) *Presence {
	return &Presence{
		hub:      hub,
		sessions: sessions,
		friends:  friends,
		logger:   logx.Component("presence"),
	}
}

// HandleConnect announces the user to each friend who is currently connected.
// A friend with no live session is skipped; they will learn the state from
// the friend list when they next connect.
func (p *Presence) HandleConnect(ctx context.Context, sess Session) {
	friends, err := p.friends.Friends(ctx, sess.UserID)
	if err != nil {
		p.logger.Error().Err(err).Str("user_id", sess.UserID).Msg("Failed to load friends on connect")
		return
	}

	signal := PresencePayload{
		UserID:    sess.UserID,
		Username:  sess.Username,
		Connected: true,
	}

	for _, friend := range friends {
		if IsUserConnected(p.sessions, friend.UserID) {
			p.hub.Emit(friend.UserID, EventUserConnected, signal)
		}
	}
}

// HandleDisconnect re-evaluates the user's online state after one connection
// closed. The live connection count is checked here, at decision time: the
// friend query above any earlier suspension point may be stale by now.
// Only the last closing connection produces an offline broadcast.
func (p *Presence) HandleDisconnect(ctx context.Context, sess Session) {
	if p.hub.ConnCount(sess.UserID) > 0 {
		// Another tab is still open; the user stays online.
		return
	}

	friends, err := p.friends.Friends(ctx, sess.UserID)
	if err != nil {
		p.logger.Error().Err(err).Str("user_id", sess.UserID).Msg("Failed to load friends on disconnect")
	} else {
		signal := PresencePayload{
			UserID:    sess.UserID,
			Username:  sess.Username,
			Connected: false,
		}

		for _, friend := range friends {
			p.hub.Emit(friend.UserID, EventUserDisconnected, signal)
		}
	}

	sess.Connected = false
	p.sessions.Save(sess)

	p.logger.Info().Str("user_id", sess.UserID).Msg("User went offline (last connection closed)")
}
