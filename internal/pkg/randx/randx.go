/*
Package randx provides functions for generating cryptographically secure random identifiers.

It is used to mint opaque session IDs handed to clients for reconnection, and
standard UUID message IDs.
*/
package randx

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

const (
	// SessionIDBytes is the number of random bytes in a session ID.
	// The ID is hex-encoded, so the resulting string is twice this length.
	SessionIDBytes = 8
)

// SessionID generates an opaque session identifier using crypto/rand.
// Clients persist this value and present it on reconnection in place of a token.
func SessionID() (string, error) {
	buf := make([]byte, SessionIDBytes)

	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random session id: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// MessageID generates a standard UUID v4 string to serve as a unique identifier for a message.
func MessageID() string {
	return uuid.New().String()
}

// IsValidSessionID checks whether the given string has the shape of a minted
// session ID: hex-encoded and of the expected length.
func IsValidSessionID(id string) bool {
	if len(id) != SessionIDBytes*2 {
		return false
	}

	_, err := hex.DecodeString(id)
	return err == nil
}
