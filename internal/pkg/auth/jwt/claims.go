package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the structure of the JSON Web Token (JWT) claims for Wayfarer.
// It includes standard claims required by the JWT specification and the custom
// claims that identify a traveler within the realtime subsystem.
type Payload struct {
	// StandardClaims embeds the necessary JWT standard fields such as Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer). These are crucial for token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// UserID is the unique identifier for the account. The platform keys users
	// by their email address, so this carries the email.
	UserID string `json:"correo"`

	// Username is the public display name shown to other travelers.
	Username string `json:"username"`

	// Role defines the account role ("user", "moderator" or "admin"), allowing
	// downstream handlers to apply different permissions.
	Role string `json:"role"`
}
