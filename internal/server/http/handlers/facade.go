package handlers

import (
	"context"
	"time"

	"github.com/safetrack/ppeorder/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers
// and middleware.
type AuthFacade interface {
	Register(ctx context.Context, login, password, team string) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ValidateSession(ctx context.Context, token string) (int64, error)
	Logout(ctx context.Context, token string) error
	UserByID(ctx context.Context, id int64) (*model.User, error)
}

// CatalogFacade provides read access to the catalog.
type CatalogFacade interface {
	CatalogItems(ctx context.Context) ([]model.CatalogItem, error)
	CatalogItem(ctx context.Context, reference string) (*model.CatalogItem, error)
}

// CartFacade provides cart operations for the authenticated user.
type CartFacade interface {
	Cart(ctx context.Context, userID int64) (*model.Cart, error)
	AddToCart(ctx context.Context, userID int64, reference string, quantity int) (*model.Cart, error)
	RemoveOneFromCart(ctx context.Context, userID int64, reference string) (*model.Cart, error)
	RemoveAllFromCart(ctx context.Context, userID int64, reference string) (*model.Cart, error)
	ClearCart(ctx context.Context, userID int64) error
}

// OrderFacade provides the order lifecycle operations.
type OrderFacade interface {
	SubmitOrder(ctx context.Context, userID int64) (*model.Order, error)
	Orders(ctx context.Context, userID int64) ([]model.Order, error)
	AllOrders(ctx context.Context) ([]model.Order, error)
	Order(ctx context.Context, id, requesterID int64) (*model.Order, error)
	OrderComments(ctx context.Context, id, requesterID int64) ([]model.OrderComment, error)
	TakeOrderInCharge(ctx context.Context, id, actorID int64) error
	ProcessOrder(ctx context.Context, id, actorID int64, comment string, promisedAt *time.Time) error
	DeliverOrder(ctx context.Context, id, actorID int64) error
	ApproveOrder(ctx context.Context, id, actorID int64) error
	RejectOrder(ctx context.Context, id, actorID int64) error
	AmendOrder(ctx context.Context, id, requesterID int64, lines []model.OrderLine, justification string) (*model.Order, error)
	DeleteOrder(ctx context.Context, id, requesterID int64) error
	ReassignOrder(ctx context.Context, id, newOwnerID, requesterID int64) error
}

// OrderingFacade aggregates the full set of operations used across handlers.
type OrderingFacade interface {
	AuthFacade
	CatalogFacade
	CartFacade
	OrderFacade
}
