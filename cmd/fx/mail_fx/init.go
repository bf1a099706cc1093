package mail_fx

import (
	"go.uber.org/fx"

	"blogpress/internal/config"
	"blogpress/internal/services"
	"blogpress/pkg/logging"
)

var Module = fx.Provide(provideMailService)

func provideMailService(cfg config.MailConfig, logger logging.Logger) services.IMailService {
	return services.NewMailService(cfg, logger)
}
