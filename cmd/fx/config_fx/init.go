package config_fx

import (
	"go.uber.org/fx"

	"blogpress/internal/config"
	"blogpress/pkg/logging"
	"blogpress/pkg/metrics"
)

var Module = fx.Options(
	fx.Provide(provideConfig, provideLogger, metrics.New),
	fx.Provide(
		func(cfg config.Config) config.DatabaseConfig { return cfg.Database },
		func(cfg config.Config) config.NotificationConfig { return cfg.Notifications },
		func(cfg config.Config) config.MailConfig { return cfg.Mail },
		func(cfg config.Config) config.StorageConfig { return cfg.Storage },
	),
)

func provideConfig() (config.Config, error) {
	config.LoadEnvFiles()
	return config.Load()
}

func provideLogger(cfg config.Config) logging.Logger {
	return logging.NewLogger(cfg.LogLevel)
}
