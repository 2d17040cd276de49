package test

import (
	"errors"

	pkgAuth "github.com/safetrack/ppeorder/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied password.
func (h HasherStub) Hash(password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return "hash:" + password, nil
}

// Compare validates password against stored hash.
func (h HasherStub) Compare(hash string, password string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, password)
	}
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// TokenSourceStub issues predictable tokens, incrementing a suffix when
// more than one token is requested.
type TokenSourceStub struct {
	Tokens []string
	next   int
}

// NewToken returns the next configured token or a fixed default.
func (s *TokenSourceStub) NewToken() string {
	if s.next < len(s.Tokens) {
		token := s.Tokens[s.next]
		s.next++
		return token
	}
	return "token"
}

var _ pkgAuth.PasswordHasher = HasherStub{}
var _ pkgAuth.TokenSource = &TokenSourceStub{}
