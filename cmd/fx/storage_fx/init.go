package storage_fx

import (
	"context"

	"go.uber.org/fx"

	"blogpress/internal/config"
	"blogpress/internal/infra"
	"blogpress/internal/services"
	"blogpress/pkg/logging"
)

var Module = fx.Provide(provideObjectStore, provideUploadService)

// provideObjectStore returns a nil store when no bucket is configured;
// uploads then fail with a storage-unavailable error.
func provideObjectStore(cfg config.StorageConfig, logger logging.Logger) (services.ObjectStore, error) {
	if !cfg.Enabled() {
		logger.Warn("object storage not configured, cover uploads disabled")
		return nil, nil
	}
	store, err := infra.NewS3ObjectStore(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func provideUploadService(store services.ObjectStore, cfg config.StorageConfig, logger logging.Logger) services.UploadServiceInterface {
	return services.NewUploadService(store, cfg.MaxUploadBytes, logger)
}
