package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/safetrack/ppeorder/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
//
// UpdateStatus is a single guarded write: the row moves from the
// expected status to the new one atomically or not at all, and a
// non-empty comment is recorded in the same transaction.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id int64, from, to model.OrderStatus, actor, comment string, promisedAt *time.Time) error
	Amend(ctx context.Context, id int64, lines []model.OrderLine, total decimal.Decimal, justification, author string) error
	ReassignOwner(ctx context.Context, id, newOwnerID int64) error
	Delete(ctx context.Context, id int64) error
	ListComments(ctx context.Context, orderID int64) ([]model.OrderComment, error)
}
