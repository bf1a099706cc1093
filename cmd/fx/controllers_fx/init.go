package controllers_fx

import (
	"go.uber.org/fx"

	"blogpress/internal/api/controllers"
	"blogpress/internal/config"
	"blogpress/internal/services"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewPostController),
	fx.Provide(controllers.NewTagController),
	fx.Provide(controllers.NewFeedbackController),
	fx.Provide(controllers.NewContactController),
	fx.Provide(controllers.NewAdminController),
	fx.Provide(controllers.NewAccessibilityController),
	fx.Provide(provideUploadController))

func provideUploadController(svc services.UploadServiceInterface, cfg config.StorageConfig) *controllers.UploadController {
	return controllers.NewUploadController(svc, cfg.MaxUploadBytes)
}
