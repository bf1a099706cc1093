package tagsfx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"blogpress/internal/repositories"
	"blogpress/internal/services"
)

var Module = fx.Provide(
	provideTagsRepo, provideTagsService)

func provideTagsRepo(db *gorm.DB) repositories.TagRepositoryInterface {
	return repositories.NewTagRepository(db)
}

func provideTagsService(tagRepo repositories.TagRepositoryInterface) services.TagServiceInterface {
	return services.NewTagService(tagRepo)
}
