package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/safetrack/ppeorder/internal/domain/model"
	"github.com/safetrack/ppeorder/internal/domain/repository"
)

// CartUseCase loads, mutates, and persists per-user carts. The budget
// ceiling is enforced by the cart itself before any snapshot is written.
type CartUseCase struct {
	carts   repository.CartRepository
	catalog repository.CatalogRepository
	ceiling decimal.Decimal
}

// NewCartUseCase constructs CartUseCase bound to the budget ceiling.
func NewCartUseCase(carts repository.CartRepository, catalog repository.CatalogRepository, ceiling decimal.Decimal) *CartUseCase {
	return &CartUseCase{carts: carts, catalog: catalog, ceiling: ceiling}
}

// Get restores the user's cart from its persisted snapshot.
func (u *CartUseCase) Get(ctx context.Context, userID int64) (*model.Cart, error) {
	lines, err := u.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return model.RestoreCart(u.ceiling, lines), nil
}

// Add resolves the catalog reference, applies the addition under the
// budget guard, and persists the new snapshot. Unknown references fail
// with ErrNotFound; rejected additions leave the persisted cart as it
// was.
func (u *CartUseCase) Add(ctx context.Context, userID int64, reference string, quantity int) (*model.Cart, error) {
	item, err := u.catalog.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	cart, err := u.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := cart.Add(*item, quantity); err != nil {
		return nil, err
	}

	if err := u.carts.Save(ctx, userID, cart.Lines()); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveOne takes one unit of the reference out of the cart. Removing
// an absent reference is a no-op and skips the persistence write.
func (u *CartUseCase) RemoveOne(ctx context.Context, userID int64, reference string) (*model.Cart, error) {
	cart, err := u.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !cart.RemoveOne(reference) {
		return cart, nil
	}

	if err := u.carts.Save(ctx, userID, cart.Lines()); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveAll drops every unit of the reference from the cart.
func (u *CartUseCase) RemoveAll(ctx context.Context, userID int64, reference string) (*model.Cart, error) {
	cart, err := u.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !cart.RemoveAll(reference) {
		return cart, nil
	}

	if err := u.carts.Save(ctx, userID, cart.Lines()); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear empties the cart and removes the persisted snapshot.
func (u *CartUseCase) Clear(ctx context.Context, userID int64) error {
	return u.carts.Delete(ctx, userID)
}

// Ceiling returns the configured budget ceiling.
func (u *CartUseCase) Ceiling() decimal.Decimal {
	return u.ceiling
}
