package repository

import (
	"context"
	"time"

	"github.com/safetrack/ppeorder/internal/domain/model"
)

// SessionRepository manages short-lived auth tokens. Expired rows are
// invisible to GetByToken and reclaimed by PurgeExpired.
type SessionRepository interface {
	Create(ctx context.Context, token string, userID int64, expiresAt time.Time) error
	GetByToken(ctx context.Context, token string) (*model.Session, error)
	Refresh(ctx context.Context, token string, expiresAt time.Time) error
	Delete(ctx context.Context, token string) error
	PurgeExpired(ctx context.Context) (int64, error)
}
