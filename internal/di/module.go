package di

import (
	"go.uber.org/fx"

	"github.com/safetrack/ppeorder/internal/app"
	"github.com/safetrack/ppeorder/internal/catalog"
	"github.com/safetrack/ppeorder/internal/config"
	"github.com/safetrack/ppeorder/internal/logger"
	"github.com/safetrack/ppeorder/internal/metrics"
	"github.com/safetrack/ppeorder/internal/pkg/auth"
	"github.com/safetrack/ppeorder/internal/server/http/router"
	"github.com/safetrack/ppeorder/internal/storage/postgres"
	"github.com/safetrack/ppeorder/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		metrics.Module,
		auth.Module,
		postgres.Module,
		usecase.Module,
		catalog.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
