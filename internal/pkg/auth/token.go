package auth

import "github.com/google/uuid"

// TokenSource produces opaque session token values. Tokens carry no
// payload; validity lives server-side in the session store.
type TokenSource interface {
	NewToken() string
}

// UUIDTokenSource issues random v4 UUID tokens.
type UUIDTokenSource struct{}

// NewToken returns a fresh random token.
func (UUIDTokenSource) NewToken() string {
	return uuid.NewString()
}
