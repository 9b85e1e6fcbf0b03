package friend

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"wayfarer/internal/app/chat"
	"wayfarer/internal/app/user"
	"wayfarer/internal/pkg/errs"
	"wayfarer/internal/pkg/logx"
)

// RespondAction is the caller's answer to a pending friend request.
type RespondAction string

const (
	ActionFriend RespondAction = "FRIEND"
	ActionReject RespondAction = "REJECT"
)

// Notifier pushes a realtime notification at a user's live connections.
// Satisfied by *chat.Notifier.
type Notifier interface {
	Notify(userID string, input chat.NotificationInput)
}

// Service implements the friendship workflow. It is one of the subsystems
// that reach the realtime core exclusively through the Notifier capability.
type Service struct {
	store    Store
	users    UserStore
	notifier Notifier

	logger zerolog.Logger
}

// NewService constructs a friend Service.
func NewService(store Store, users UserStore, notifier Notifier) *Service {
	return &Service{
		store:    store,
		users:    users,
		notifier: notifier,
		logger:   logx.Component("friends"),
	}
}

// SendRequest creates a PENDING edge from sender to receiving and notifies
// the receiver. Either side may be named by email or username.
func (s *Service) SendRequest(ctx context.Context, sender, receiving string) (*Friendship, *errs.CustomError) {
	if sender == receiving {
		return nil, errs.NewError(errs.ErrSelfFriendRequest)
	}

	senderUser, receivingUser, customErr := s.resolvePair(ctx, sender, receiving)
	if customErr != nil {
		return nil, customErr
	}

	if senderUser.Email == receivingUser.Email {
		return nil, errs.NewError(errs.ErrSelfFriendRequest)
	}

	existing, err := s.store.FindBetween(ctx, senderUser.Email, receivingUser.Email)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to look up existing friendship edge")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	if existing != nil {
		if existing.Status == StatusFriend {
			return nil, errs.NewError(errs.ErrAlreadyFriends)
		}
		return nil, errs.NewError(errs.ErrFriendRequestExists)
	}

	created, err := s.store.Create(ctx, senderUser.Email, receivingUser.Email, StatusPending)
	if err != nil {
		// Two requests racing past the existence check collapse here.
		if errors.Is(err, ErrEdgeExists) {
			return nil, errs.NewError(errs.ErrFriendRequestExists)
		}
		s.logger.Error().Err(err).Msg("Failed to create friend request")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	s.notifier.Notify(receivingUser.Email, chat.NotificationInput{
		Type:          chat.NotificationFriendRequest,
		ActorName:     senderUser.Username,
		ActorUsername: senderUser.Email,
		ActorAvatar:   senderUser.AvatarURL,
		Message:       "sent you a friend request",
		LinkID:        senderUser.Email,
	})

	return created, nil
}

// CancelRequest withdraws a still-pending request between the two users.
func (s *Service) CancelRequest(ctx context.Context, sender, receiving string) *errs.CustomError {
	senderUser, receivingUser, customErr := s.resolvePair(ctx, sender, receiving)
	if customErr != nil {
		return customErr
	}

	req, err := s.store.FindBetween(ctx, senderUser.Email, receivingUser.Email, StatusPending)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to look up pending friend request")
		return errs.NewError(errs.ErrUnknown)
	}
	if req == nil {
		return errs.NewError(errs.ErrFriendRequestNotFound)
	}

	if err := s.store.Delete(ctx, req.ID); err != nil {
		s.logger.Error().Err(err).Int64("request_id", req.ID).Msg("Failed to delete friend request")
		return errs.NewError(errs.ErrUnknown)
	}

	return nil
}

// Respond answers a pending request. Accepting sets the acceptance date and
// notifies the original requester; rejecting only flips the status.
func (s *Service) Respond(ctx context.Context, requestID int64, action RespondAction) (*Friendship, *errs.CustomError) {
	req, err := s.store.FindByID(ctx, requestID)
	if err != nil {
		s.logger.Error().Err(err).Int64("request_id", requestID).Msg("Failed to look up friend request")
		return nil, errs.NewError(errs.ErrUnknown)
	}
	if req == nil {
		return nil, errs.NewError(errs.ErrFriendRequestNotFound)
	}

	if action == ActionFriend {
		acceptedAt := time.Now()
		if err := s.store.SetStatus(ctx, req.ID, StatusFriend, &acceptedAt); err != nil {
			s.logger.Error().Err(err).Int64("request_id", req.ID).Msg("Failed to accept friend request")
			return nil, errs.NewError(errs.ErrUnknown)
		}
		req.Status = StatusFriend
		req.AcceptedAt = &acceptedAt

		s.notifier.Notify(req.Requesting.UserID, chat.NotificationInput{
			Type:          chat.NotificationFriendAccepted,
			ActorName:     req.Receiving.Username,
			ActorUsername: req.Receiving.Username,
			ActorAvatar:   req.Receiving.AvatarURL,
			Message:       "accepted your friend request",
			LinkID:        strconv.FormatInt(req.ID, 10),
		})
	} else {
		if err := s.store.SetStatus(ctx, req.ID, StatusRejected, nil); err != nil {
			s.logger.Error().Err(err).Int64("request_id", req.ID).Msg("Failed to reject friend request")
			return nil, errs.NewError(errs.ErrUnknown)
		}
		req.Status = StatusRejected
	}

	return req, nil
}

// ListRequests returns the pending requests the user has received.
func (s *Service) ListRequests(ctx context.Context, email string) ([]Friendship, *errs.CustomError) {
	pending, err := s.store.PendingFor(ctx, email)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("Failed to list pending friend requests")
		return nil, errs.NewError(errs.ErrUnknown)
	}
	return pending, nil
}

// ListFriends returns the user's accepted friends.
func (s *Service) ListFriends(ctx context.Context, email string) ([]user.Profile, *errs.CustomError) {
	friends, err := s.store.Friends(ctx, email)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("Failed to list friends")
		return nil, errs.NewError(errs.ErrUnknown)
	}
	return friends, nil
}

// SearchFriends filters the user's friends by a case-insensitive username match.
func (s *Service) SearchFriends(ctx context.Context, email, query string) ([]user.Profile, *errs.CustomError) {
	friends, customErr := s.ListFriends(ctx, email)
	if customErr != nil {
		return nil, customErr
	}

	q := strings.ToLower(query)

	matched := make([]user.Profile, 0, len(friends))
	for _, f := range friends {
		if strings.Contains(strings.ToLower(f.Username), q) {
			matched = append(matched, f)
		}
	}
	return matched, nil
}

// RemoveFriend deletes the accepted friendship between the two users.
func (s *Service) RemoveFriend(ctx context.Context, email, friendEmail string) *errs.CustomError {
	if email == friendEmail {
		return errs.NewError(errs.ErrSelfFriendRequest)
	}

	edge, err := s.store.FindBetween(ctx, email, friendEmail, StatusFriend)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to look up friendship edge")
		return errs.NewError(errs.ErrUnknown)
	}
	if edge == nil {
		return errs.NewError(errs.ErrNotFriends)
	}

	if err := s.store.Delete(ctx, edge.ID); err != nil {
		s.logger.Error().Err(err).Int64("edge_id", edge.ID).Msg("Failed to remove friendship")
		return errs.NewError(errs.ErrUnknown)
	}

	return nil
}

// Block locks the edge between the two users, creating one if none exists.
// A blocked edge suppresses the pair from friend lists and presence scope.
func (s *Service) Block(ctx context.Context, email, target string) (*Friendship, *errs.CustomError) {
	senderUser, targetUser, customErr := s.resolvePair(ctx, email, target)
	if customErr != nil {
		return nil, customErr
	}

	edge, err := s.store.FindBetween(ctx, senderUser.Email, targetUser.Email)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to look up friendship edge")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	if edge != nil {
		if err := s.store.SetStatus(ctx, edge.ID, StatusLocked, nil); err != nil {
			s.logger.Error().Err(err).Int64("edge_id", edge.ID).Msg("Failed to block user")
			return nil, errs.NewError(errs.ErrUnknown)
		}
		edge.Status = StatusLocked
		return edge, nil
	}

	created, err := s.store.Create(ctx, senderUser.Email, targetUser.Email, StatusLocked)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create blocked edge")
		return nil, errs.NewError(errs.ErrUnknown)
	}
	return created, nil
}

// Unblock restores a locked edge back to an accepted friendship.
func (s *Service) Unblock(ctx context.Context, email, target string) (*Friendship, *errs.CustomError) {
	senderUser, targetUser, customErr := s.resolvePair(ctx, email, target)
	if customErr != nil {
		return nil, customErr
	}

	edge, err := s.store.FindBetween(ctx, senderUser.Email, targetUser.Email, StatusLocked)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to look up blocked edge")
		return nil, errs.NewError(errs.ErrUnknown)
	}
	if edge == nil {
		return nil, errs.NewError(errs.ErrUserNotBlocked)
	}

	if err := s.store.SetStatus(ctx, edge.ID, StatusFriend, edge.AcceptedAt); err != nil {
		s.logger.Error().Err(err).Int64("edge_id", edge.ID).Msg("Failed to unblock user")
		return nil, errs.NewError(errs.ErrUnknown)
	}
	edge.Status = StatusFriend
	return edge, nil
}

// ListBlocked returns the travelers the user has blocked.
func (s *Service) ListBlocked(ctx context.Context, email string) ([]user.Profile, *errs.CustomError) {
	blocked, err := s.store.BlockedBy(ctx, email)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("Failed to list blocked users")
		return nil, errs.NewError(errs.ErrUnknown)
	}
	return blocked, nil
}

// resolvePair loads both accounts, accepting email or username for either.
func (s *Service) resolvePair(ctx context.Context, a, b string) (*user.User, *user.User, *errs.CustomError) {
	userA, err := s.users.FindByEmailOrUsername(ctx, a)
	if err != nil {
		s.logger.Error().Err(err).Str("query", a).Msg("Failed to resolve user")
		return nil, nil, errs.NewError(errs.ErrUnknown)
	}
	userB, err := s.users.FindByEmailOrUsername(ctx, b)
	if err != nil {
		s.logger.Error().Err(err).Str("query", b).Msg("Failed to resolve user")
		return nil, nil, errs.NewError(errs.ErrUnknown)
	}

	if userA == nil || userB == nil {
		return nil, nil, errs.NewError(errs.ErrUserNotFound)
	}

	return userA, userB, nil
}
