package repository

import (
	"context"

	"github.com/safetrack/ppeorder/internal/domain/model"
)

// CartRepository stores at most one cart snapshot per user.
// Saves are unconditional upserts: the latest write wins, concurrent
// sessions of the same user are not protected against each other.
type CartRepository interface {
	Get(ctx context.Context, userID int64) ([]model.CartLine, error)
	Save(ctx context.Context, userID int64, lines []model.CartLine) error
	Delete(ctx context.Context, userID int64) error
}
