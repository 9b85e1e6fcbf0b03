/*
Package handler provides the HTTP handlers and routing setup for the Wayfarer
realtime server.

This file contains the friendship workflow endpoints: requests, responses,
blocking, search and friend-of-friends suggestions. These are the subsystems
that reach the realtime core through the notification fan-out.
*/
package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"wayfarer/internal/app/friend"
	"wayfarer/internal/pkg/auth/jwt"
	"wayfarer/internal/pkg/errs"
	"wayfarer/internal/pkg/req"
	"wayfarer/internal/pkg/resp"
)

// requireIdentity extracts the authenticated payload or writes a 401.
func requireIdentity(w http.ResponseWriter, r *http.Request) *jwt.Payload {
	payload := jwt.GetPayloadFromContext(r)
	if payload == nil {
		resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
		return nil
	}
	return payload
}

type friendRequestInput struct {
	To string `json:"to"`
}

// HandleSendFriendRequest creates a pending friend request to another traveler.
func HandleSendFriendRequest(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := requireIdentity(w, r)
		if payload == nil {
			return
		}

		var input friendRequestInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if input.To == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		created, customErr := deps.Friends.SendRequest(r.Context(), payload.UserID, input.To)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, created)
	}
}

// HandleCancelFriendRequest withdraws a pending friend request.
func HandleCancelFriendRequest(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := requireIdentity(w, r)
		if payload == nil {
			return
		}

		var input friendRequestInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if input.To == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if customErr := deps.Friends.CancelRequest(r.Context(), payload.UserID, input.To); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}

type respondRequestInput struct {
	Action string `json:"action"`
}

// HandleRespondFriendRequest accepts or rejects a pending friend request.
func HandleRespondFriendRequest(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := requireIdentity(w, r)
		if payload == nil {
			return
		}

		requestID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		var input respondRequestInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		action := friend.RespondAction(input.Action)
		if action != friend.ActionFriend && action != friend.ActionReject {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		updated, customErr := deps.Friends.Respond(r.Context(), requestID, action)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, updated)
	}
}

// HandleListFriendRequests returns the pending requests the caller received.
func HandleListFriendRequests(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := requireIdentity(w, r)
		if payload == nil {
			return
		}

		pending, customErr := deps.Friends.ListRequests(r.Context(), payload.UserID)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, pending)
	}
}

// HandleListFriends returns the caller's accepted friends, optionally
// filtered by the "q" username query.
func HandleListFriends(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := requireIdentity(w, r)
		if payload == nil {
			return
		}

		query := r.URL.Query().Get("q")

		if query != "" {
			matched, customErr := deps.Friends.SearchFriends(r.Context(), payload.UserID, query)
			if customErr != nil {
				resp.RespondError(w, r, customErr)
				return
			}
			resp.RespondSuccess(w, r, matched)
			return
		}

		friends, customErr := deps.Friends.ListFriends(r.Context(), payload.UserID)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, friends)
	}
}

// HandleRemoveFriend deletes an accepted friendship.
func HandleRemoveFriend(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := requireIdentity(w, r)
		if payload == nil {
			return
		}

		friendID := chi.URLParam(r, "friendID")
		if friendID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if customErr := deps.Friends.RemoveFriend(r.Context(), payload.UserID, friendID); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}

type blockInput struct {
	User string `json:"user"`
}

// HandleBlockUser locks the edge with another traveler.
func HandleBlockUser(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := requireIdentity(w, r)
		if payload == nil {
			return
		}

		var input blockInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if input.User == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		blocked, customErr := deps.Friends.Block(r.Context(), payload.UserID, input.User)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, blocked)
	}
}

// HandleUnblockUser restores a locked edge to an accepted friendship.
func HandleUnblockUser(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := requireIdentity(w, r)
		if payload == nil {
			return
		}

		var input blockInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if input.User == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		unblocked, customErr := deps.Friends.Unblock(r.Context(), payload.UserID, input.User)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, unblocked)
	}
}

// HandleListBlocked returns the travelers the caller has blocked.
func HandleListBlocked(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := requireIdentity(w, r)
		if payload == nil {
			return
		}

		blocked, customErr := deps.Friends.ListBlocked(r.Context(), payload.UserID)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, blocked)
	}
}

// HandleFriendSuggestions returns friend-of-friends candidates for the caller.
func HandleFriendSuggestions(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := requireIdentity(w, r)
		if payload == nil {
			return
		}

		suggestions, err := deps.Friends.Suggestions(r.Context(), payload.UserID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, suggestions)
	}
}
