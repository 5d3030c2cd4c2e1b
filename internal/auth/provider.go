// ABOUTME: TokenProvider interface and static-token implementation
// ABOUTME: Consumed by the transport executor before every request

package auth

import (
	"context"
	"errors"
)

// ErrNoCredential is returned when a provider has nothing to hand out.
var ErrNoCredential = errors.New("no credential available")

// TokenProvider hands out a currently valid bearer token. Implementations
// must be safe for concurrent use.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenProvider backed by a fixed token, typically a
// personal access token from the environment.
type StaticToken string

// Token returns the fixed token.
func (s StaticToken) Token(_ context.Context) (string, error) {
	if s == "" {
		return "", ErrNoCredential
	}
	return string(s), nil
}
