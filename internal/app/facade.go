package app

import (
	"context"
	"errors"
	"time"

	domainErrors "github.com/safetrack/ppeorder/internal/domain/errors"
	"github.com/safetrack/ppeorder/internal/domain/model"
	"github.com/safetrack/ppeorder/internal/metrics"
	"github.com/safetrack/ppeorder/internal/usecase"
)

// OrderingFacade aggregates the use cases behind the interfaces the
// HTTP layer and the session sweeper consume.
type OrderingFacade struct {
	auth    *usecase.AuthUseCase
	catalog *usecase.CatalogUseCase
	carts   *usecase.CartUseCase
	orders  *usecase.OrderUseCase
	metrics *metrics.ServerMetrics
}

// NewOrderingFacade constructs the facade.
func NewOrderingFacade(auth *usecase.AuthUseCase, catalog *usecase.CatalogUseCase, carts *usecase.CartUseCase, orders *usecase.OrderUseCase, m *metrics.ServerMetrics) *OrderingFacade {
	return &OrderingFacade{auth: auth, catalog: catalog, carts: carts, orders: orders, metrics: m}
}

// --- auth ---

func (f *OrderingFacade) Register(ctx context.Context, login, password, team string) (string, error) {
	_, token, err := f.auth.Register(ctx, login, password, team)
	return token, err
}

func (f *OrderingFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *OrderingFacade) ValidateSession(ctx context.Context, token string) (int64, error) {
	return f.auth.ValidateSession(ctx, token)
}

func (f *OrderingFacade) Logout(ctx context.Context, token string) error {
	return f.auth.Logout(ctx, token)
}

func (f *OrderingFacade) UserByID(ctx context.Context, id int64) (*model.User, error) {
	return f.auth.UserByID(ctx, id)
}

// PurgeExpiredSessions is consumed by the background sweeper.
func (f *OrderingFacade) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return f.auth.PurgeExpiredSessions(ctx)
}

// --- catalog ---

func (f *OrderingFacade) CatalogItems(ctx context.Context) ([]model.CatalogItem, error) {
	return f.catalog.List(ctx)
}

func (f *OrderingFacade) CatalogItem(ctx context.Context, reference string) (*model.CatalogItem, error) {
	return f.catalog.GetByReference(ctx, reference)
}

// --- cart ---

func (f *OrderingFacade) Cart(ctx context.Context, userID int64) (*model.Cart, error) {
	return f.carts.Get(ctx, userID)
}

func (f *OrderingFacade) AddToCart(ctx context.Context, userID int64, reference string, quantity int) (*model.Cart, error) {
	cart, err := f.carts.Add(ctx, userID, reference, quantity)
	if err != nil {
		if errors.Is(err, domainErrors.ErrBudgetExceeded) {
			f.metrics.BudgetRejections.Inc()
		}
		return nil, err
	}
	return cart, nil
}

func (f *OrderingFacade) RemoveOneFromCart(ctx context.Context, userID int64, reference string) (*model.Cart, error) {
	return f.carts.RemoveOne(ctx, userID, reference)
}

func (f *OrderingFacade) RemoveAllFromCart(ctx context.Context, userID int64, reference string) (*model.Cart, error) {
	return f.carts.RemoveAll(ctx, userID, reference)
}

func (f *OrderingFacade) ClearCart(ctx context.Context, userID int64) error {
	return f.carts.Clear(ctx, userID)
}

// --- orders ---

// SubmitOrder converts the user's current cart into a PENDING order
// and empties the cart. The emptied snapshot is best-effort: the order
// exists once Submit succeeds regardless of the cleanup write.
func (f *OrderingFacade) SubmitOrder(ctx context.Context, userID int64) (*model.Order, error) {
	user, err := f.auth.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart, err := f.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	order, err := f.orders.Submit(ctx, userID, user.Team, cart)
	if err != nil {
		if errors.Is(err, domainErrors.ErrBudgetExceeded) {
			f.metrics.BudgetRejections.Inc()
		}
		return nil, err
	}

	_ = f.carts.Clear(ctx, userID)
	f.metrics.OrdersSubmitted.Inc()
	return order, nil
}

func (f *OrderingFacade) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	return f.orders.ListByUser(ctx, userID)
}

func (f *OrderingFacade) AllOrders(ctx context.Context) ([]model.Order, error) {
	return f.orders.ListAll(ctx)
}

func (f *OrderingFacade) Order(ctx context.Context, id, requesterID int64) (*model.Order, error) {
	requester, err := f.auth.UserByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	return f.orders.GetForRequester(ctx, id, requester)
}

func (f *OrderingFacade) OrderComments(ctx context.Context, id, requesterID int64) ([]model.OrderComment, error) {
	requester, err := f.auth.UserByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	return f.orders.Comments(ctx, id, requester)
}

func (f *OrderingFacade) TakeOrderInCharge(ctx context.Context, id, actorID int64) error {
	actor, err := f.auth.UserByID(ctx, actorID)
	if err != nil {
		return err
	}
	return f.orders.TakeInCharge(ctx, id, actor)
}

func (f *OrderingFacade) ProcessOrder(ctx context.Context, id, actorID int64, comment string, promisedAt *time.Time) error {
	actor, err := f.auth.UserByID(ctx, actorID)
	if err != nil {
		return err
	}
	return f.orders.MarkProcessed(ctx, id, actor, comment, promisedAt)
}

func (f *OrderingFacade) DeliverOrder(ctx context.Context, id, actorID int64) error {
	actor, err := f.auth.UserByID(ctx, actorID)
	if err != nil {
		return err
	}
	return f.orders.MarkDelivered(ctx, id, actor)
}

func (f *OrderingFacade) ApproveOrder(ctx context.Context, id, actorID int64) error {
	actor, err := f.auth.UserByID(ctx, actorID)
	if err != nil {
		return err
	}
	return f.orders.Approve(ctx, id, actor)
}

func (f *OrderingFacade) RejectOrder(ctx context.Context, id, actorID int64) error {
	actor, err := f.auth.UserByID(ctx, actorID)
	if err != nil {
		return err
	}
	return f.orders.Reject(ctx, id, actor)
}

func (f *OrderingFacade) AmendOrder(ctx context.Context, id, requesterID int64, lines []model.OrderLine, justification string) (*model.Order, error) {
	requester, err := f.auth.UserByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	return f.orders.Amend(ctx, id, requester, lines, justification)
}

func (f *OrderingFacade) DeleteOrder(ctx context.Context, id, requesterID int64) error {
	requester, err := f.auth.UserByID(ctx, requesterID)
	if err != nil {
		return err
	}
	return f.orders.Delete(ctx, id, requester)
}

func (f *OrderingFacade) ReassignOrder(ctx context.Context, id, newOwnerID, requesterID int64) error {
	requester, err := f.auth.UserByID(ctx, requesterID)
	if err != nil {
		return err
	}
	return f.orders.Reassign(ctx, id, newOwnerID, requester)
}
