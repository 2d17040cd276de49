package catalog

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/safetrack/ppeorder/internal/config"
	"github.com/safetrack/ppeorder/internal/usecase"
)

// Module wires the catalog feed loader and imports the configured feed
// file on startup.
var Module = fx.Options(
	fx.Provide(NewClassifier, NewLoader),
	fx.Invoke(registerImport),
)

type importParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Loader    *Loader
	Catalog   *usecase.CatalogUseCase
	Logger    *slog.Logger
}

func registerImport(p importParams) {
	if p.Config.CatalogFile == "" {
		return
	}
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			items, err := p.Loader.LoadFile(p.Config.CatalogFile)
			if err != nil {
				return err
			}
			if err := p.Catalog.Import(ctx, items); err != nil {
				return err
			}
			p.Logger.Info("catalog feed imported",
				slog.String("file", p.Config.CatalogFile),
				slog.Int("items", len(items)),
			)
			return nil
		},
	})
}
