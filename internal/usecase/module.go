package usecase

import (
	"go.uber.org/fx"

	"github.com/safetrack/ppeorder/internal/config"
	"github.com/safetrack/ppeorder/internal/domain/repository"
	pkgAuth "github.com/safetrack/ppeorder/internal/pkg/auth"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	func(users repository.UserRepository, sessions repository.SessionRepository, hasher pkgAuth.PasswordHasher, tokens pkgAuth.TokenSource, cfg *config.Config) *AuthUseCase {
		return NewAuthUseCase(users, sessions, hasher, tokens, cfg.SessionTTL)
	},
	func(carts repository.CartRepository, catalog repository.CatalogRepository, cfg *config.Config) *CartUseCase {
		return NewCartUseCase(carts, catalog, cfg.BudgetCeiling)
	},
	func(orders repository.OrderRepository, users repository.UserRepository, cfg *config.Config) *OrderUseCase {
		return NewOrderUseCase(orders, users, cfg.BudgetCeiling)
	},
	NewCatalogUseCase,
)
