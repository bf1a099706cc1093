package db_fx

import (
	"context"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"blogpress/internal/config"
	"blogpress/internal/infra"
	"blogpress/pkg/logging"
)

var Module = fx.Provide(provideDB)

func provideDB(lc fx.Lifecycle, cfg config.DatabaseConfig, logger logging.Logger) (*gorm.DB, error) {
	db, err := infra.InitPostgresql(cfg, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			infra.ClosePostgresql(db, logger)
			return nil
		},
	})
	return db, nil
}
