package handler

import (
	"wayfarer/internal/app/chat"
	"wayfarer/internal/app/friend"
	"wayfarer/internal/configs"
)

// AppDeps bundles the constructed collaborators handlers depend on.
type AppDeps struct {
	Hub      *chat.Hub
	Sessions chat.SessionStore
	Presence *chat.Presence
	Messages *chat.MessageService
	Friends  *friend.Service
	Verifier chat.TokenVerifier
	Config   *configs.AppConfig
}
