package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	domainErrors "github.com/safetrack/ppeorder/internal/domain/errors"
	testhelpers "github.com/safetrack/ppeorder/internal/test"
)

func newAuthUseCase(users *testhelpers.UserRepositoryStub, sessions *testhelpers.SessionRepositoryStub) *AuthUseCase {
	return NewAuthUseCase(users, sessions, testhelpers.HasherStub{}, &testhelpers.TokenSourceStub{}, time.Minute)
}

func TestAuthUseCaseRegisterSuccess(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	sessions := testhelpers.NewSessionRepositoryStub()
	uc := newAuthUseCase(users, sessions)

	ctx := context.Background()
	user, token, err := uc.Register(ctx, "alice", "password", "maintenance")
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("expected user to have ID assigned")
	}
	if user.Team != "maintenance" {
		t.Fatalf("unexpected team %q", user.Team)
	}
	if token != "token" {
		t.Fatalf("unexpected token %q", token)
	}

	stored, err := users.GetByLogin(ctx, "alice")
	if err != nil {
		t.Fatalf("expected user in repository: %v", err)
	}
	if stored.PasswordHash != "hash:password" {
		t.Fatalf("password hash not stored: %v", stored.PasswordHash)
	}
	if _, ok := sessions.Sessions[token]; !ok {
		t.Fatal("expected session row for issued token")
	}
}

func TestAuthUseCaseRegisterDuplicate(t *testing.T) {
	uc := newAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.NewSessionRepositoryStub())

	ctx := context.Background()
	if _, _, err := uc.Register(ctx, "bob", "secret", ""); err != nil {
		t.Fatalf("unexpected error on first register: %v", err)
	}
	if _, _, err := uc.Register(ctx, "bob", "secret", ""); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAuthUseCaseRegisterBlankCredentials(t *testing.T) {
	uc := newAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.NewSessionRepositoryStub())

	if _, _, err := uc.Register(context.Background(), "  ", "secret", ""); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := uc.Register(context.Background(), "dave", "", ""); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthUseCaseAuthenticate(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	uc := newAuthUseCase(users, testhelpers.NewSessionRepositoryStub())

	ctx := context.Background()
	if _, _, err := uc.Register(ctx, "carol", "123456", ""); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, err := uc.Authenticate(ctx, "carol", "bad"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
	if _, _, err := uc.Authenticate(ctx, "nobody", "123456"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("unknown login must map to invalid credentials, got %v", err)
	}

	user, token, err := uc.Authenticate(ctx, "carol", "123456")
	if err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}
	if user.Login != "carol" {
		t.Fatalf("unexpected user %q", user.Login)
	}
	if token == "" {
		t.Fatal("expected session token")
	}
}

func TestAuthUseCaseValidateSession(t *testing.T) {
	sessions := testhelpers.NewSessionRepositoryStub()
	uc := newAuthUseCase(testhelpers.NewUserRepositoryStub(), sessions)

	ctx := context.Background()
	if err := sessions.Create(ctx, "live", 7, time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	userID, err := uc.ValidateSession(ctx, "live")
	if err != nil {
		t.Fatalf("validate returned error: %v", err)
	}
	if userID != 7 {
		t.Fatalf("expected user 7, got %d", userID)
	}

	if _, err := uc.ValidateSession(ctx, ""); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("blank token: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := uc.ValidateSession(ctx, "unknown"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("unknown token: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthUseCaseValidateSessionSlidesExpiry(t *testing.T) {
	sessions := testhelpers.NewSessionRepositoryStub()
	uc := newAuthUseCase(testhelpers.NewUserRepositoryStub(), sessions)

	ctx := context.Background()
	soon := time.Now().Add(5 * time.Second)
	if err := sessions.Create(ctx, "live", 1, soon); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	if _, err := uc.ValidateSession(ctx, "live"); err != nil {
		t.Fatalf("validate returned error: %v", err)
	}
	if !sessions.Sessions["live"].ExpiresAt.After(soon) {
		t.Fatal("expected expiry to move forward on activity")
	}
}

func TestAuthUseCaseValidateSessionExpired(t *testing.T) {
	sessions := testhelpers.NewSessionRepositoryStub()
	uc := newAuthUseCase(testhelpers.NewUserRepositoryStub(), sessions)

	ctx := context.Background()
	if err := sessions.Create(ctx, "stale", 1, time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	if _, err := uc.ValidateSession(ctx, "stale"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for expired token, got %v", err)
	}
}

func TestAuthUseCaseLogout(t *testing.T) {
	sessions := testhelpers.NewSessionRepositoryStub()
	uc := newAuthUseCase(testhelpers.NewUserRepositoryStub(), sessions)

	ctx := context.Background()
	if err := sessions.Create(ctx, "live", 1, time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	if err := uc.Logout(ctx, "live"); err != nil {
		t.Fatalf("logout returned error: %v", err)
	}
	if _, ok := sessions.Sessions["live"]; ok {
		t.Fatal("expected session to be removed")
	}

	// Revoking an unknown or blank token is not an error.
	if err := uc.Logout(ctx, "live"); err != nil {
		t.Fatalf("second logout returned error: %v", err)
	}
	if err := uc.Logout(ctx, ""); err != nil {
		t.Fatalf("blank token logout returned error: %v", err)
	}
}

func TestAuthUseCasePurgeExpiredSessions(t *testing.T) {
	sessions := testhelpers.NewSessionRepositoryStub()
	uc := newAuthUseCase(testhelpers.NewUserRepositoryStub(), sessions)

	ctx := context.Background()
	_ = sessions.Create(ctx, "stale", 1, time.Now().Add(-time.Minute))
	_ = sessions.Create(ctx, "live", 2, time.Now().Add(time.Minute))

	purged, err := uc.PurgeExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("purge returned error: %v", err)
	}
	if purged != 1 {
		t.Fatalf("expected 1 purged session, got %d", purged)
	}
	if _, ok := sessions.Sessions["live"]; !ok {
		t.Fatal("live session must survive the purge")
	}
}
