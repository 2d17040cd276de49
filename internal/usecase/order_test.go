package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/safetrack/ppeorder/internal/domain/errors"
	"github.com/safetrack/ppeorder/internal/domain/model"
	testhelpers "github.com/safetrack/ppeorder/internal/test"
)

var (
	staffUser = &model.User{ID: 10, Login: "staff", IsStaff: true}
	adminUser = &model.User{ID: 11, Login: "admin", IsAdmin: true}
	plainUser = &model.User{ID: 12, Login: "worker"}
)

func cartWith(t *testing.T, prices ...int64) *model.Cart {
	t.Helper()
	cart := model.NewCart(decimal.NewFromInt(1500))
	for i, price := range prices {
		item := model.CatalogItem{
			Reference: "R" + string(rune('1'+i)),
			Name:      "item",
			Price:     decimal.NewFromInt(price),
			Unit:      "unit",
		}
		if err := cart.Add(item, 1); err != nil {
			t.Fatalf("seed cart: %v", err)
		}
	}
	return cart
}

func newOrderUseCase(orders *testhelpers.OrderRepositoryStub, users *testhelpers.UserRepositoryStub) *OrderUseCase {
	return NewOrderUseCase(orders, users, decimal.NewFromInt(1500))
}

func TestOrderUseCaseSubmit(t *testing.T) {
	orders := testhelpers.NewOrderRepositoryStub()
	uc := newOrderUseCase(orders, testhelpers.NewUserRepositoryStub())

	order, err := uc.Submit(context.Background(), 1, "maintenance", cartWith(t, 1400, 50))
	if err != nil {
		t.Fatalf("submit returned error: %v", err)
	}
	if order.Status != model.OrderStatusPending {
		t.Fatalf("expected PENDING, got %s", order.Status)
	}
	if !order.Total.Equal(decimal.NewFromInt(1450)) {
		t.Fatalf("expected total 1450, got %s", order.Total)
	}
	if order.Team != "maintenance" {
		t.Fatalf("unexpected team %q", order.Team)
	}
	if len(order.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(order.Lines))
	}
}

func TestOrderUseCaseSubmitEmptyCart(t *testing.T) {
	uc := newOrderUseCase(testhelpers.NewOrderRepositoryStub(), testhelpers.NewUserRepositoryStub())

	if _, err := uc.Submit(context.Background(), 1, "", model.NewCart(decimal.NewFromInt(1500))); !errors.Is(err, domainErrors.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if _, err := uc.Submit(context.Background(), 1, "", nil); !errors.Is(err, domainErrors.ErrEmptyCart) {
		t.Fatalf("nil cart: expected ErrEmptyCart, got %v", err)
	}
}

func TestOrderUseCaseSubmitRechecksCeiling(t *testing.T) {
	uc := NewOrderUseCase(testhelpers.NewOrderRepositoryStub(), testhelpers.NewUserRepositoryStub(), decimal.NewFromInt(100))

	// Cart built under a looser ceiling than the one the use case holds.
	cart := model.RestoreCart(decimal.NewFromInt(1500), []model.CartLine{
		{Reference: "R1", Price: decimal.NewFromInt(150), Quantity: 1},
	})

	_, err := uc.Submit(context.Background(), 1, "", cart)
	var budgetErr *domainErrors.BudgetError
	if !errors.As(err, &budgetErr) {
		t.Fatalf("expected BudgetError, got %v", err)
	}
	if !budgetErr.Resulting.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected resulting 150, got %s", budgetErr.Resulting)
	}
}

func TestOrderUseCaseFulfillmentPipeline(t *testing.T) {
	orders := testhelpers.NewOrderRepositoryStub()
	uc := newOrderUseCase(orders, testhelpers.NewUserRepositoryStub())

	ctx := context.Background()
	order, err := uc.Submit(ctx, 1, "", cartWith(t, 100))
	if err != nil {
		t.Fatalf("submit returned error: %v", err)
	}

	if err := uc.TakeInCharge(ctx, order.ID, staffUser); err != nil {
		t.Fatalf("take in charge returned error: %v", err)
	}
	if got := orders.Orders[order.ID].Status; got != model.OrderStatusInProgress {
		t.Fatalf("expected IN_PROGRESS, got %s", got)
	}
	if orders.Orders[order.ID].HandledBy != "staff" {
		t.Fatalf("expected handler to be recorded, got %q", orders.Orders[order.ID].HandledBy)
	}

	promised := time.Now().Add(48 * time.Hour)
	if err := uc.MarkProcessed(ctx, order.ID, staffUser, "restocking", &promised); err != nil {
		t.Fatalf("mark processed returned error: %v", err)
	}
	if got := orders.Orders[order.ID].Status; got != model.OrderStatusProcessed {
		t.Fatalf("expected PROCESSED, got %s", got)
	}
	if orders.Orders[order.ID].Comment != "restocking" {
		t.Fatalf("expected comment to be recorded, got %q", orders.Orders[order.ID].Comment)
	}
	if orders.Orders[order.ID].PromisedAt == nil {
		t.Fatal("expected promised date to be recorded")
	}

	if err := uc.MarkDelivered(ctx, order.ID, staffUser); err != nil {
		t.Fatalf("mark delivered returned error: %v", err)
	}
	if got := orders.Orders[order.ID].Status; got != model.OrderStatusDelivered {
		t.Fatalf("expected DELIVERED, got %s", got)
	}
}

func TestOrderUseCaseDeliverBeforeProcess(t *testing.T) {
	orders := testhelpers.NewOrderRepositoryStub()
	uc := newOrderUseCase(orders, testhelpers.NewUserRepositoryStub())

	ctx := context.Background()
	order, err := uc.Submit(ctx, 1, "", cartWith(t, 100))
	if err != nil {
		t.Fatalf("submit returned error: %v", err)
	}

	err = uc.MarkDelivered(ctx, order.ID, staffUser)
	if !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if got := orders.Orders[order.ID].Status; got != model.OrderStatusPending {
		t.Fatalf("rejected transition must not change status, got %s", got)
	}
}

func TestOrderUseCaseTransitionRequiresStaff(t *testing.T) {
	orders := testhelpers.NewOrderRepositoryStub()
	uc := newOrderUseCase(orders, testhelpers.NewUserRepositoryStub())

	ctx := context.Background()
	order, err := uc.Submit(ctx, 1, "", cartWith(t, 100))
	if err != nil {
		t.Fatalf("submit returned error: %v", err)
	}

	if err := uc.TakeInCharge(ctx, order.ID, plainUser); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := uc.TakeInCharge(ctx, order.ID, nil); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("nil actor: expected ErrForbidden, got %v", err)
	}
	if err := uc.TakeInCharge(ctx, order.ID, adminUser); err != nil {
		t.Fatalf("admin must be allowed, got %v", err)
	}
}

func TestOrderUseCaseApprovalGate(t *testing.T) {
	orders := testhelpers.NewOrderRepositoryStub()
	uc := newOrderUseCase(orders, testhelpers.NewUserRepositoryStub())

	ctx := context.Background()
	first, err := uc.Submit(ctx, 1, "", cartWith(t, 100))
	if err != nil {
		t.Fatalf("submit returned error: %v", err)
	}
	second, err := uc.Submit(ctx, 1, "", cartWith(t, 100))
	if err != nil {
		t.Fatalf("submit returned error: %v", err)
	}

	if err := uc.Approve(ctx, first.ID, staffUser); err != nil {
		t.Fatalf("approve returned error: %v", err)
	}
	if err := uc.Reject(ctx, second.ID, staffUser); err != nil {
		t.Fatalf("reject returned error: %v", err)
	}

	// Both outcomes are terminal.
	if err := uc.TakeInCharge(ctx, first.ID, staffUser); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("approved order must be terminal, got %v", err)
	}
	if err := uc.TakeInCharge(ctx, second.ID, staffUser); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("rejected order must be terminal, got %v", err)
	}
}

func TestOrderUseCaseAmend(t *testing.T) {
	orders := testhelpers.NewOrderRepositoryStub()
	uc := newOrderUseCase(orders, testhelpers.NewUserRepositoryStub())

	ctx := context.Background()
	owner := &model.User{ID: 1, Login: "owner"}
	order, err := uc.Submit(ctx, owner.ID, "", cartWith(t, 100))
	if err != nil {
		t.Fatalf("submit returned error: %v", err)
	}

	newLines := []model.OrderLine{{Reference: "R9", Name: "boots", Price: decimal.NewFromInt(60), Quantity: 2, Unit: "pair"}}

	if _, err := uc.Amend(ctx, order.ID, owner, newLines, "  "); !errors.Is(err, domainErrors.ErrJustificationRequired) {
		t.Fatalf("expected ErrJustificationRequired, got %v", err)
	}
	if _, err := uc.Amend(ctx, order.ID, owner, nil, "sizes changed"); !errors.Is(err, domainErrors.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	badLines := []model.OrderLine{{Reference: "R9", Price: decimal.NewFromInt(60), Quantity: 0}}
	if _, err := uc.Amend(ctx, order.ID, owner, badLines, "sizes changed"); !errors.Is(err, domainErrors.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}

	amended, err := uc.Amend(ctx, order.ID, owner, newLines, "sizes changed")
	if err != nil {
		t.Fatalf("amend returned error: %v", err)
	}
	if !amended.Total.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("expected recomputed total 120, got %s", amended.Total)
	}

	comments, err := uc.Comments(ctx, order.ID, owner)
	if err != nil {
		t.Fatalf("comments returned error: %v", err)
	}
	if len(comments) != 1 || comments[0].Body != "amended: sizes changed" {
		t.Fatalf("expected justification comment, got %+v", comments)
	}
}

func TestOrderUseCaseAmendInvisibleToStranger(t *testing.T) {
	orders := testhelpers.NewOrderRepositoryStub()
	uc := newOrderUseCase(orders, testhelpers.NewUserRepositoryStub())

	ctx := context.Background()
	order, err := uc.Submit(ctx, 1, "", cartWith(t, 100))
	if err != nil {
		t.Fatalf("submit returned error: %v", err)
	}

	stranger := &model.User{ID: 99, Login: "stranger"}
	lines := []model.OrderLine{{Reference: "R9", Price: decimal.NewFromInt(60), Quantity: 1}}
	if _, err := uc.Amend(ctx, order.ID, stranger, lines, "because"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("stranger must see ErrNotFound, got %v", err)
	}
}

func TestOrderUseCaseDelete(t *testing.T) {
	orders := testhelpers.NewOrderRepositoryStub()
	uc := newOrderUseCase(orders, testhelpers.NewUserRepositoryStub())

	ctx := context.Background()
	owner := &model.User{ID: 1, Login: "owner"}
	order, err := uc.Submit(ctx, owner.ID, "", cartWith(t, 100))
	if err != nil {
		t.Fatalf("submit returned error: %v", err)
	}

	if err := uc.Delete(ctx, order.ID, plainUser); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("non-owner must be forbidden, got %v", err)
	}
	if err := uc.Delete(ctx, order.ID, owner); err != nil {
		t.Fatalf("owner delete returned error: %v", err)
	}
	if err := uc.Delete(ctx, order.ID, adminUser); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Admin may delete someone else's order.
	other, err := uc.Submit(ctx, 2, "", cartWith(t, 100))
	if err != nil {
		t.Fatalf("submit returned error: %v", err)
	}
	if err := uc.Delete(ctx, other.ID, adminUser); err != nil {
		t.Fatalf("admin delete returned error: %v", err)
	}
}

func TestOrderUseCaseReassign(t *testing.T) {
	orders := testhelpers.NewOrderRepositoryStub()
	users := testhelpers.NewUserRepositoryStub()
	newOwner := users.Add(&model.User{Login: "successor"})
	uc := newOrderUseCase(orders, users)

	ctx := context.Background()
	order, err := uc.Submit(ctx, 1, "", cartWith(t, 100))
	if err != nil {
		t.Fatalf("submit returned error: %v", err)
	}

	if err := uc.Reassign(ctx, order.ID, newOwner.ID, staffUser); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("staff without admin must be forbidden, got %v", err)
	}
	if err := uc.Reassign(ctx, order.ID, 404, adminUser); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("unknown new owner must fail, got %v", err)
	}
	if err := uc.Reassign(ctx, order.ID, newOwner.ID, adminUser); err != nil {
		t.Fatalf("reassign returned error: %v", err)
	}
	if orders.Orders[order.ID].UserID != newOwner.ID {
		t.Fatalf("expected owner %d, got %d", newOwner.ID, orders.Orders[order.ID].UserID)
	}
}

func TestOrderUseCaseGetForRequester(t *testing.T) {
	orders := testhelpers.NewOrderRepositoryStub()
	uc := newOrderUseCase(orders, testhelpers.NewUserRepositoryStub())

	ctx := context.Background()
	owner := &model.User{ID: 1, Login: "owner"}
	order, err := uc.Submit(ctx, owner.ID, "", cartWith(t, 100))
	if err != nil {
		t.Fatalf("submit returned error: %v", err)
	}

	if _, err := uc.GetForRequester(ctx, order.ID, owner); err != nil {
		t.Fatalf("owner read returned error: %v", err)
	}
	if _, err := uc.GetForRequester(ctx, order.ID, staffUser); err != nil {
		t.Fatalf("staff read returned error: %v", err)
	}
	stranger := &model.User{ID: 99, Login: "stranger"}
	if _, err := uc.GetForRequester(ctx, order.ID, stranger); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("stranger must see ErrNotFound, got %v", err)
	}
}
