package handler

import (
	"context"

	"wayfarer/internal/app/chat"
	"wayfarer/internal/pkg/auth/jwt"
)

// JWTVerifier adapts the platform's JWT tokens to the chat core's
// TokenVerifier capability. The core itself never sees JWT details.
type JWTVerifier struct {
	secret string
}

// NewJWTVerifier constructs a verifier over the shared signing secret.
func NewJWTVerifier(secret string) JWTVerifier {
	return JWTVerifier{secret: secret}
}

// Verify parses and validates the bearer token and returns the identity it carries.
func (v JWTVerifier) Verify(ctx context.Context, token string) (chat.Identity, error) {
	payload, err := jwt.ParseToken(token, v.secret)
	if err != nil {
		return chat.Identity{}, err
	}

	return chat.Identity{
		UserID:   payload.UserID,
		Username: payload.Username,
		Role:     payload.Role,
	}, nil
}
