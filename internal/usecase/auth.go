package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	domainErrors "github.com/safetrack/ppeorder/internal/domain/errors"
	"github.com/safetrack/ppeorder/internal/domain/model"
	"github.com/safetrack/ppeorder/internal/domain/repository"
	pkgAuth "github.com/safetrack/ppeorder/internal/pkg/auth"
)

// AuthUseCase handles user lifecycle and session management.
type AuthUseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	hasher   pkgAuth.PasswordHasher
	tokens   pkgAuth.TokenSource
	ttl      time.Duration
}

// NewAuthUseCase constructs AuthUseCase with the session validity window.
func NewAuthUseCase(users repository.UserRepository, sessions repository.SessionRepository, hasher pkgAuth.PasswordHasher, tokens pkgAuth.TokenSource, ttl time.Duration) *AuthUseCase {
	return &AuthUseCase{users: users, sessions: sessions, hasher: hasher, tokens: tokens, ttl: ttl}
}

// Register creates a new user with login/password and opens a session.
func (u *AuthUseCase) Register(ctx context.Context, login, password, team string) (*model.User, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}

	usr, err := u.users.Create(ctx, login, hash, strings.TrimSpace(team))
	if err != nil {
		return nil, "", err
	}

	token, err := u.openSession(ctx, usr.ID)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// Authenticate validates credentials and opens a session.
func (u *AuthUseCase) Authenticate(ctx context.Context, login, password string) (*model.User, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.openSession(ctx, usr.ID)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// ValidateSession resolves a token to a user ID and slides the expiry
// forward; expired or unknown tokens fail with ErrInvalidCredentials.
func (u *AuthUseCase) ValidateSession(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, domainErrors.ErrInvalidCredentials
	}

	session, err := u.sessions.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return 0, domainErrors.ErrInvalidCredentials
		}
		return 0, err
	}

	if session.Expired(time.Now()) {
		return 0, domainErrors.ErrInvalidCredentials
	}

	// Sliding expiry: activity keeps the session alive. A failed
	// refresh does not invalidate an otherwise valid token.
	_ = u.sessions.Refresh(ctx, token, time.Now().Add(u.ttl))

	return session.UserID, nil
}

// Logout discards the session token.
func (u *AuthUseCase) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	err := u.sessions.Delete(ctx, token)
	if errors.Is(err, domainErrors.ErrNotFound) {
		return nil
	}
	return err
}

// PurgeExpiredSessions removes dead session rows and reports the count.
func (u *AuthUseCase) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return u.sessions.PurgeExpired(ctx)
}

// UserByID fetches user by identifier.
func (u *AuthUseCase) UserByID(ctx context.Context, id int64) (*model.User, error) {
	return u.users.GetByID(ctx, id)
}

func (u *AuthUseCase) openSession(ctx context.Context, userID int64) (string, error) {
	token := u.tokens.NewToken()
	if err := u.sessions.Create(ctx, token, userID, time.Now().Add(u.ttl)); err != nil {
		return "", err
	}
	return token, nil
}
