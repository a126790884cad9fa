package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// rememberTokenBytes yields a 22 character URL-safe token.
const rememberTokenBytes = 16

// NewToken returns a random URL-safe token suitable for remember-me cookies.
func NewToken() (string, error) {
	b := make([]byte, rememberTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
