package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/safetrack/ppeorder/internal/domain/errors"
	"github.com/safetrack/ppeorder/internal/domain/model"
	"github.com/safetrack/ppeorder/internal/domain/repository"
)

// OrderUseCase converts carts into orders and drives the forward-only
// fulfillment pipeline.
type OrderUseCase struct {
	orders  repository.OrderRepository
	users   repository.UserRepository
	ceiling decimal.Decimal
}

// NewOrderUseCase constructs OrderUseCase bound to the budget ceiling.
func NewOrderUseCase(orders repository.OrderRepository, users repository.UserRepository, ceiling decimal.Decimal) *OrderUseCase {
	return &OrderUseCase{orders: orders, users: users, ceiling: ceiling}
}

// Submit creates a PENDING order from the cart. The total is recomputed
// from the snapshot and checked against the ceiling again; an earlier
// cart-side check is not trusted.
func (u *OrderUseCase) Submit(ctx context.Context, userID int64, team string, cart *model.Cart) (*model.Order, error) {
	if cart == nil || cart.IsEmpty() {
		return nil, domainErrors.ErrEmptyCart
	}

	lines := model.SnapshotLines(cart.GroupByItem())
	total := model.LinesTotal(lines)
	if total.GreaterThan(u.ceiling) {
		return nil, &domainErrors.BudgetError{
			Ceiling:   u.ceiling,
			Current:   decimal.Zero,
			Attempted: total,
			Resulting: total,
		}
	}

	order := &model.Order{
		UserID: userID,
		Team:   team,
		Lines:  lines,
		Total:  total,
		Status: model.OrderStatusPending,
	}
	return u.orders.Create(ctx, order)
}

// TakeInCharge moves a PENDING order to IN_PROGRESS and records the actor.
func (u *OrderUseCase) TakeInCharge(ctx context.Context, id int64, actor *model.User) error {
	return u.transition(ctx, id, model.OrderStatusInProgress, actor, "", nil)
}

// MarkProcessed moves an IN_PROGRESS order to PROCESSED, recording the
// actor, an optional comment, and the promised delivery date.
func (u *OrderUseCase) MarkProcessed(ctx context.Context, id int64, actor *model.User, comment string, promisedAt *time.Time) error {
	return u.transition(ctx, id, model.OrderStatusProcessed, actor, comment, promisedAt)
}

// MarkDelivered moves a PROCESSED order to DELIVERED.
func (u *OrderUseCase) MarkDelivered(ctx context.Context, id int64, actor *model.User) error {
	return u.transition(ctx, id, model.OrderStatusDelivered, actor, "", nil)
}

// Approve resolves the approval gate on a PENDING order. Terminal.
func (u *OrderUseCase) Approve(ctx context.Context, id int64, actor *model.User) error {
	return u.transition(ctx, id, model.OrderStatusApproved, actor, "", nil)
}

// Reject resolves the approval gate on a PENDING order. Terminal.
func (u *OrderUseCase) Reject(ctx context.Context, id int64, actor *model.User) error {
	return u.transition(ctx, id, model.OrderStatusRejected, actor, "", nil)
}

func (u *OrderUseCase) transition(ctx context.Context, id int64, to model.OrderStatus, actor *model.User, comment string, promisedAt *time.Time) error {
	if actor == nil || !actor.IsStaff && !actor.IsAdmin {
		return domainErrors.ErrForbidden
	}

	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !order.Status.CanTransitionTo(to) {
		return &domainErrors.TransitionError{From: string(order.Status), To: string(to)}
	}

	return u.orders.UpdateStatus(ctx, id, order.Status, to, actor.Login, comment, promisedAt)
}

// Amend replaces the order snapshot and total. A non-empty justification
// is mandatory and is recorded as a comment in the same write; silent
// snapshot replacement does not exist.
func (u *OrderUseCase) Amend(ctx context.Context, id int64, requester *model.User, lines []model.OrderLine, justification string) (*model.Order, error) {
	if strings.TrimSpace(justification) == "" {
		return nil, domainErrors.ErrJustificationRequired
	}
	if len(lines) == 0 {
		return nil, domainErrors.ErrEmptyCart
	}
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, domainErrors.ErrInvalidQuantity
		}
	}

	order, err := u.GetForRequester(ctx, id, requester)
	if err != nil {
		return nil, err
	}

	total := model.LinesTotal(lines)
	if err := u.orders.Amend(ctx, order.ID, lines, total, justification, requester.Login); err != nil {
		return nil, err
	}

	return u.orders.GetByID(ctx, order.ID)
}

// Delete removes an order. Only an administrator or the original owner
// may delete; the removal is hard, there is no soft-delete.
func (u *OrderUseCase) Delete(ctx context.Context, id int64, requester *model.User) error {
	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if requester == nil || !requester.IsAdmin && order.UserID != requester.ID {
		return domainErrors.ErrForbidden
	}
	return u.orders.Delete(ctx, id)
}

// Reassign transfers order ownership. Administrator only.
func (u *OrderUseCase) Reassign(ctx context.Context, id, newOwnerID int64, requester *model.User) error {
	if requester == nil || !requester.IsAdmin {
		return domainErrors.ErrForbidden
	}
	if _, err := u.orders.GetByID(ctx, id); err != nil {
		return err
	}
	if _, err := u.users.GetByID(ctx, newOwnerID); err != nil {
		return err
	}
	return u.orders.ReassignOwner(ctx, id, newOwnerID)
}

// GetForRequester fetches an order visible to the requester. Strangers
// get ErrNotFound rather than ErrForbidden so that order existence is
// not revealed.
func (u *OrderUseCase) GetForRequester(ctx context.Context, id int64, requester *model.User) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if requester == nil {
		return nil, domainErrors.ErrNotFound
	}
	if order.UserID != requester.ID && !requester.IsStaff && !requester.IsAdmin {
		return nil, domainErrors.ErrNotFound
	}
	return order, nil
}

// ListByUser returns the user's orders, newest first.
func (u *OrderUseCase) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return u.orders.ListByUser(ctx, userID)
}

// ListAll returns every order for the staff overview.
func (u *OrderUseCase) ListAll(ctx context.Context) ([]model.Order, error) {
	return u.orders.ListAll(ctx)
}

// Comments returns the audit trail of an order visible to the requester.
func (u *OrderUseCase) Comments(ctx context.Context, id int64, requester *model.User) ([]model.OrderComment, error) {
	if _, err := u.GetForRequester(ctx, id, requester); err != nil {
		return nil, err
	}
	return u.orders.ListComments(ctx, id)
}
