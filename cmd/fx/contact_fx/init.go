package contact_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"blogpress/internal/repositories"
	"blogpress/internal/services"
	"blogpress/pkg/logging"
	"blogpress/pkg/metrics"
)

var Module = fx.Provide(provideContactRepo, provideContactService)

func provideContactRepo(db *gorm.DB) repositories.ContactRepository {
	return repositories.NewContactRepository(db)
}

func provideContactService(
	repo repositories.ContactRepository,
	notifier services.NotificationServiceInterface,
	logger logging.Logger,
	m *metrics.Metrics,
) services.ContactServiceInterface {
	return services.NewContactService(repo, notifier, logger, m)
}
