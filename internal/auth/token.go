// Package auth provides opaque bearer token generation and the HTTP middleware
// that resolves tokens into acting user accounts.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// tokenBytes is the entropy of a session token. 32 random bytes make tokens
// unguessable and globally unique across concurrent logins without coordination.
const tokenBytes = 32

// GenerateToken returns a new opaque session token from a cryptographically
// secure random source.
func GenerateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
