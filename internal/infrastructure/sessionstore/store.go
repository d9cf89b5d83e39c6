package sessionstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned for unknown or expired tokens.
var ErrNotFound = errors.New("session not found")

// Store maps HTTP session tokens to card numbers.
type Store interface {
	Save(ctx context.Context, token, number string) error
	Lookup(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}
