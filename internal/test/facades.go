package test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/safetrack/ppeorder/internal/domain/model"
)

// AuthFacadeStub simulates authentication facade interactions.
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, string, string, string) (string, error)
	AuthenticateFn func(context.Context, string, string) (string, error)
	ValidateFn     func(context.Context, string) (int64, error)
	LogoutFn       func(context.Context, string) error
	UserByIDFn     func(context.Context, int64) (*model.User, error)
}

// Register returns a token for successful registration scenarios.
func (s AuthFacadeStub) Register(ctx context.Context, login, password, team string) (string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, login, password, team)
	}
	return "token", nil
}

// Authenticate returns a token for successful authentication scenarios.
func (s AuthFacadeStub) Authenticate(ctx context.Context, login, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, login, password)
	}
	return "token", nil
}

// ValidateSession resolves the token to a fixed user unless overridden.
func (s AuthFacadeStub) ValidateSession(ctx context.Context, token string) (int64, error) {
	if s.ValidateFn != nil {
		return s.ValidateFn(ctx, token)
	}
	return 1, nil
}

// Logout executes configured revocation handler.
func (s AuthFacadeStub) Logout(ctx context.Context, token string) error {
	if s.LogoutFn != nil {
		return s.LogoutFn(ctx, token)
	}
	return nil
}

// UserByID returns the preconfigured user record.
func (s AuthFacadeStub) UserByID(ctx context.Context, id int64) (*model.User, error) {
	if s.UserByIDFn != nil {
		return s.UserByIDFn(ctx, id)
	}
	return &model.User{ID: id, Login: "user"}, nil
}

// CatalogFacadeStub serves catalog reads from overrides or defaults.
type CatalogFacadeStub struct {
	ItemsFn func(context.Context) ([]model.CatalogItem, error)
	ItemFn  func(context.Context, string) (*model.CatalogItem, error)
}

// CatalogItems lists available items.
func (s CatalogFacadeStub) CatalogItems(ctx context.Context) ([]model.CatalogItem, error) {
	if s.ItemsFn != nil {
		return s.ItemsFn(ctx)
	}
	return []model.CatalogItem{{Reference: "R1", Name: "Helmet", Category: "Head protection", Price: decimal.NewFromInt(25), Unit: "unit"}}, nil
}

// CatalogItem resolves a single reference.
func (s CatalogFacadeStub) CatalogItem(ctx context.Context, reference string) (*model.CatalogItem, error) {
	if s.ItemFn != nil {
		return s.ItemFn(ctx, reference)
	}
	return &model.CatalogItem{Reference: reference, Name: "Helmet", Category: "Head protection", Price: decimal.NewFromInt(25), Unit: "unit"}, nil
}

// CartFacadeStub provides controllable behaviour for cart endpoints.
type CartFacadeStub struct {
	CartFn      func(context.Context, int64) (*model.Cart, error)
	AddFn       func(context.Context, int64, string, int) (*model.Cart, error)
	RemoveOneFn func(context.Context, int64, string) (*model.Cart, error)
	RemoveAllFn func(context.Context, int64, string) (*model.Cart, error)
	ClearFn     func(context.Context, int64) error
}

func emptyCart() *model.Cart {
	return model.NewCart(decimal.NewFromInt(1500))
}

// Cart returns the configured cart or an empty default.
func (s CartFacadeStub) Cart(ctx context.Context, userID int64) (*model.Cart, error) {
	if s.CartFn != nil {
		return s.CartFn(ctx, userID)
	}
	return emptyCart(), nil
}

// AddToCart delegates to the override or returns an empty cart.
func (s CartFacadeStub) AddToCart(ctx context.Context, userID int64, reference string, quantity int) (*model.Cart, error) {
	if s.AddFn != nil {
		return s.AddFn(ctx, userID, reference, quantity)
	}
	return emptyCart(), nil
}

// RemoveOneFromCart delegates to the override or returns an empty cart.
func (s CartFacadeStub) RemoveOneFromCart(ctx context.Context, userID int64, reference string) (*model.Cart, error) {
	if s.RemoveOneFn != nil {
		return s.RemoveOneFn(ctx, userID, reference)
	}
	return emptyCart(), nil
}

// RemoveAllFromCart delegates to the override or returns an empty cart.
func (s CartFacadeStub) RemoveAllFromCart(ctx context.Context, userID int64, reference string) (*model.Cart, error) {
	if s.RemoveAllFn != nil {
		return s.RemoveAllFn(ctx, userID, reference)
	}
	return emptyCart(), nil
}

// ClearCart executes the configured handler.
func (s CartFacadeStub) ClearCart(ctx context.Context, userID int64) error {
	if s.ClearFn != nil {
		return s.ClearFn(ctx, userID)
	}
	return nil
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	SubmitFn   func(context.Context, int64) (*model.Order, error)
	OrdersFn   func(context.Context, int64) ([]model.Order, error)
	AllFn      func(context.Context) ([]model.Order, error)
	OrderFn    func(context.Context, int64, int64) (*model.Order, error)
	CommentsFn func(context.Context, int64, int64) ([]model.OrderComment, error)
	ClaimFn    func(context.Context, int64, int64) error
	ProcessFn  func(context.Context, int64, int64, string, *time.Time) error
	DeliverFn  func(context.Context, int64, int64) error
	ApproveFn  func(context.Context, int64, int64) error
	RejectFn   func(context.Context, int64, int64) error
	AmendFn    func(context.Context, int64, int64, []model.OrderLine, string) (*model.Order, error)
	DeleteFn   func(context.Context, int64, int64) error
	ReassignFn func(context.Context, int64, int64, int64) error
}

// SubmitOrder delegates to the override or returns a pending order.
func (s OrderFacadeStub) SubmitOrder(ctx context.Context, userID int64) (*model.Order, error) {
	if s.SubmitFn != nil {
		return s.SubmitFn(ctx, userID)
	}
	return &model.Order{ID: 1, UserID: userID, Status: model.OrderStatusPending}, nil
}

// Orders returns predefined orders for given user.
func (s OrderFacadeStub) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, userID)
	}
	return []model.Order{{ID: 1, UserID: userID, Status: model.OrderStatusPending}}, nil
}

// AllOrders returns the full overview.
func (s OrderFacadeStub) AllOrders(ctx context.Context) ([]model.Order, error) {
	if s.AllFn != nil {
		return s.AllFn(ctx)
	}
	return []model.Order{{ID: 1, UserID: 1, Status: model.OrderStatusPending}}, nil
}

// Order resolves a single order for the requester.
func (s OrderFacadeStub) Order(ctx context.Context, id, requesterID int64) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, id, requesterID)
	}
	return &model.Order{ID: id, UserID: requesterID, Status: model.OrderStatusPending}, nil
}

// OrderComments returns the comment trail for the order.
func (s OrderFacadeStub) OrderComments(ctx context.Context, id, requesterID int64) ([]model.OrderComment, error) {
	if s.CommentsFn != nil {
		return s.CommentsFn(ctx, id, requesterID)
	}
	return nil, nil
}

// TakeOrderInCharge executes the configured handler.
func (s OrderFacadeStub) TakeOrderInCharge(ctx context.Context, id, actorID int64) error {
	if s.ClaimFn != nil {
		return s.ClaimFn(ctx, id, actorID)
	}
	return nil
}

// ProcessOrder executes the configured handler.
func (s OrderFacadeStub) ProcessOrder(ctx context.Context, id, actorID int64, comment string, promisedAt *time.Time) error {
	if s.ProcessFn != nil {
		return s.ProcessFn(ctx, id, actorID, comment, promisedAt)
	}
	return nil
}

// DeliverOrder executes the configured handler.
func (s OrderFacadeStub) DeliverOrder(ctx context.Context, id, actorID int64) error {
	if s.DeliverFn != nil {
		return s.DeliverFn(ctx, id, actorID)
	}
	return nil
}

// ApproveOrder executes the configured handler.
func (s OrderFacadeStub) ApproveOrder(ctx context.Context, id, actorID int64) error {
	if s.ApproveFn != nil {
		return s.ApproveFn(ctx, id, actorID)
	}
	return nil
}

// RejectOrder executes the configured handler.
func (s OrderFacadeStub) RejectOrder(ctx context.Context, id, actorID int64) error {
	if s.RejectFn != nil {
		return s.RejectFn(ctx, id, actorID)
	}
	return nil
}

// AmendOrder executes the configured handler.
func (s OrderFacadeStub) AmendOrder(ctx context.Context, id, requesterID int64, lines []model.OrderLine, justification string) (*model.Order, error) {
	if s.AmendFn != nil {
		return s.AmendFn(ctx, id, requesterID, lines, justification)
	}
	return &model.Order{ID: id, UserID: requesterID, Lines: lines, Status: model.OrderStatusPending}, nil
}

// DeleteOrder executes the configured handler.
func (s OrderFacadeStub) DeleteOrder(ctx context.Context, id, requesterID int64) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id, requesterID)
	}
	return nil
}

// ReassignOrder executes the configured handler.
func (s OrderFacadeStub) ReassignOrder(ctx context.Context, id, newOwnerID, requesterID int64) error {
	if s.ReassignFn != nil {
		return s.ReassignFn(ctx, id, newOwnerID, requesterID)
	}
	return nil
}

// OrderingFacadeStub aggregates facade dependencies for HTTP layer tests.
type OrderingFacadeStub struct {
	AuthFacadeStub
	CatalogFacadeStub
	CartFacadeStub
	OrderFacadeStub
}
