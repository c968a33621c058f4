// Package identity resolves bearer tokens to the subject that owns files.
package identity

import (
	"context"
	"errors"
)

var ErrInvalidToken = errors.New("invalid token")

// Provider maps a bearer token to a stable subject id.
type Provider interface {
	Identify(ctx context.Context, token string) (string, error)
}
