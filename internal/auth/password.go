package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher produces bcrypt digests for passwords and remember tokens.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given bcrypt cost. Out of range costs
// fall back to bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Digest returns the bcrypt digest of raw.
func (h *Hasher) Digest(raw string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(raw), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt digest: %w", err)
	}
	return string(digest), nil
}

// Matches reports whether raw hashes to digest. An empty digest never matches.
func Matches(digest, raw string) bool {
	if digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(raw)) == nil
}
