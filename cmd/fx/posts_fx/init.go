package posts_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"blogpress/internal/repositories"
	"blogpress/internal/services"
	"blogpress/pkg/logging"
)

var Module = fx.Provide(
	providePostRepo, providePostService, providePostResolver)

func providePostRepo(db *gorm.DB) repositories.PostRepository {
	return repositories.NewPostRepository(db)
}

func providePostResolver(posts repositories.PostRepository) services.PostResolver {
	return services.NewPostResolver(posts)
}

func providePostService(
	posts repositories.PostRepository,
	embeddings services.EmbeddingServiceInterface,
	logger logging.Logger,
) services.PostServiceInterface {
	return services.NewPostService(posts, embeddings, logger)
}
