package chat

import (
	"time"

	"github.com/rs/zerolog"

	"wayfarer/internal/pkg/logx"
)

// Notification type values understood by the frontend.
const (
	NotificationFriendRequest  = "FRIEND_REQUEST"
	NotificationFriendAccepted = "FRIEND_ACCEPTED"
	NotificationFriendRejected = "FRIEND_REJECTED"
	NotificationNewPost        = "NEW_POST"
	NotificationComment        = "COMMENT"
	NotificationReport         = "REPORT"
)

// DefaultActorAvatar is the asset shown when the acting user has no photo.
const DefaultActorAvatar = "/img/angel.jpg"

// NotificationInput is what callers supply; the Notifier completes the
// canonical envelope.
type NotificationInput struct {
	Type          string
	ActorName     string
	ActorUsername string
	ActorAvatar   string
	Message       string
	LinkID        string
}

// NotificationPreview is the short text/link pair shown in the notification card.
type NotificationPreview struct {
	Message string `json:"message"`
	LinkID  string `json:"linkId"`
}

// Notification is the canonical envelope pushed into the recipient's room.
type Notification struct {
	ID            int64               `json:"id"`
	Type          string              `json:"type"`
	Read          bool                `json:"read"`
	Timestamp     time.Time           `json:"timestamp"`
	ActorName     string              `json:"actor_name"`
	ActorAvatar   string              `json:"actor_avatar"`
	ActorUsername string              `json:"actor_username"`
	Preview       NotificationPreview `json:"preview"`
	LinkID        string              `json:"linkId"`
}

// Notifier is the single integration point other subsystems (friend requests,
// shared posts, reports) use to reach a user's live connections. It is a
// constructed capability, injected wherever needed, so there is no package
// singleton that could silently be nil.
//
// Delivery is best-effort by contract: nothing is persisted, nothing is
// retried, and a recipient with no open connection receives nothing.
type Notifier struct {
	hub *Hub

	// now is swappable for tests.
	now func() time.Time

	logger zerolog.Logger
}

// NewNotifier constructs a Notifier over the hub.
func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{
		hub:    hub,
		now:    time.Now,
		logger: logx.Component("notifier"),
	}
}

// Notify builds the canonical envelope and emits it into the user's room.
func (n *Notifier) Notify(userID string, input NotificationInput) {
	avatar := input.ActorAvatar
	if avatar == "" {
		avatar = DefaultActorAvatar
	}

	now := n.now()

	payload := Notification{
		ID:            now.UnixMilli(),
		Type:          input.Type,
		Read:          false,
		Timestamp:     now,
		ActorName:     input.ActorName,
		ActorAvatar:   avatar,
		ActorUsername: input.ActorUsername,
		Preview: NotificationPreview{
			Message: input.Message,
			LinkID:  input.LinkID,
		},
		LinkID: input.LinkID,
	}

	n.hub.Emit(userID, EventNotification, payload)

	n.logger.Debug().
		Str("user_id", userID).
		Str("type", input.Type).
		Msg("Notification fanned out")
}
