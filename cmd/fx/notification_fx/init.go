package notification_fx

import (
	"context"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"blogpress/internal/config"
	"blogpress/internal/repositories"
	"blogpress/internal/services"
	"blogpress/pkg/logging"
	"blogpress/pkg/metrics"
)

var Module = fx.Options(
	fx.Provide(
		provideNotificationRepo,
		provideWebhookClient,
		provideDispatcher,
		provideNotificationService,
	),
	fx.Invoke(startDispatcher),
)

func provideNotificationRepo(db *gorm.DB) repositories.NotificationRepository {
	return repositories.NewNotificationRepository(db)
}

func provideWebhookClient(cfg config.NotificationConfig) services.WebhookSender {
	return services.NewWebhookClient(cfg.RequestTimeout, cfg.RetryBaseDelay, cfg.RetryMaxDelay, cfg.HTTPRetries)
}

func provideDispatcher(
	repo repositories.NotificationRepository,
	webhook services.WebhookSender,
	mailer services.IMailService,
	cfg config.NotificationConfig,
	logger logging.Logger,
	m *metrics.Metrics,
) *services.Dispatcher {
	return services.NewDispatcher(repo, webhook, mailer, cfg, logger, m)
}

func provideNotificationService(
	repo repositories.NotificationRepository,
	dispatcher *services.Dispatcher,
	cfg config.NotificationConfig,
	logger logging.Logger,
	m *metrics.Metrics,
) services.NotificationServiceInterface {
	return services.NewNotificationService(repo, dispatcher, cfg, logger, m)
}

func startDispatcher(lc fx.Lifecycle, dispatcher *services.Dispatcher) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			dispatcher.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return dispatcher.Stop(ctx)
		},
	})
}
