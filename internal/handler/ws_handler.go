/*
Package handler provides the HTTP handlers and routing setup for the Wayfarer
realtime server.

This file contains the WebSocket connection gateway: rate limiting, the
session/token authentication protocol, the connection upgrade, and wiring the
client into the hub and presence broadcaster.
*/
package handler

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"wayfarer/internal/app/chat"
	"wayfarer/internal/pkg/errs"
	"wayfarer/internal/pkg/limiter"
	"wayfarer/internal/pkg/logx"
	"wayfarer/internal/pkg/randx"
	"wayfarer/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc that authenticates and upgrades
// WebSocket connections.
//
// Authentication: the handshake presents either a previously issued sessionID
// (reconnect fast-path, no credential re-check) or a bearer token verified
// through the TokenVerifier. A connection with neither is rejected before the
// upgrade, so it never joins a room.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		query := r.URL.Query()

		sess, customErr := authenticate(r, deps, query.Get("sessionID"), query.Get("token"))
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		sess.Connected = true
		deps.Sessions.Save(sess)

		client := chat.NewClient(deps.Hub, deps.Presence, deps.Messages, conn, sess)

		go client.WritePump()

		deps.Hub.Join(client)

		// Ack the handshake so the client can persist the session ID for
		// future reconnects.
		client.SendEvent(chat.EventSession, chat.SessionPayload{
			SessionID: sess.SessionID,
			UserID:    sess.UserID,
			Username:  sess.Username,
		})

		logx.Info("WebSocket connection established",
			"user_id", sess.UserID, "session_id", sess.SessionID)

		deps.Presence.HandleConnect(r.Context(), sess)

		client.ReadPump()
	}
}

// authenticate resolves the handshake credentials into a session.
// The sessionID fast-path reuses the stored identity without touching the
// verifier; the token path mints a fresh session ID.
func authenticate(r *http.Request, deps *AppDeps, sessionID, token string) (chat.Session, *errs.CustomError) {
	if sessionID != "" {
		if sess, ok := deps.Sessions.Find(sessionID); ok {
			return sess, nil
		}
	}

	if token == "" {
		logx.Warn("WebSocket connection rejected: no token and no known sessionID")
		return chat.Session{}, errs.NewError(errs.ErrAuthTokenMissing)
	}

	identity, err := deps.Verifier.Verify(r.Context(), token)
	if err != nil {
		logx.Warn("WebSocket connection rejected: token verification failed", "error", err)
		return chat.Session{}, errs.NewError(errs.ErrAuthTokenInvalid)
	}

	newSessionID, err := randx.SessionID()
	if err != nil {
		logx.Error(err, "Failed to mint session ID")
		return chat.Session{}, errs.NewError(errs.ErrUnknown)
	}

	return chat.Session{
		SessionID: newSessionID,
		UserID:    identity.UserID,
		Username:  identity.Username,
	}, nil
}
