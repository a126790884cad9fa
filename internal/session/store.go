package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by a Store when no live session has the given id.
var ErrNotFound = errors.New("session: not found")

// Data is the persisted part of a session.
type Data struct {
	UserID        uint              `json:"user_id,omitempty"`
	ForwardingURL string            `json:"forwarding_url,omitempty"`
	Flash         map[string]string `json:"flash,omitempty"`
}

// Store persists session data keyed by the session cookie id.
type Store interface {
	Load(ctx context.Context, id string) (*Data, error)
	Save(ctx context.Context, id string, data *Data, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}
