package accessibility_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"blogpress/internal/repositories"
	"blogpress/internal/services"
	"blogpress/pkg/logging"
)

var Module = fx.Provide(provideAccessibilityRepo, provideAccessibilityService)

func provideAccessibilityRepo(db *gorm.DB) repositories.AccessibilityRepository {
	return repositories.NewAccessibilityRepository(db)
}

func provideAccessibilityService(repo repositories.AccessibilityRepository, logger logging.Logger) services.AccessibilityServiceInterface {
	return services.NewAccessibilityService(repo, logger)
}
