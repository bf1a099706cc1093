package embedding_fx

import (
	"context"
	"io"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"blogpress/internal/config"
	"blogpress/internal/repositories"
	"blogpress/internal/services"
	"blogpress/pkg/logging"
	"blogpress/pkg/utils"
)

var Module = fx.Provide(provideEmbeddingRepo, provideEmbeddingService)

func provideEmbeddingRepo(db *gorm.DB) repositories.PostEmbeddingRepository {
	return repositories.NewPostEmbeddingRepository(db)
}

// provideEmbeddingService falls back to tag overlap for related posts when no
// provider is configured or the client cannot be built.
func provideEmbeddingService(
	lc fx.Lifecycle,
	cfg config.Config,
	repo repositories.PostEmbeddingRepository,
	logger logging.Logger,
) services.EmbeddingServiceInterface {
	var client utils.EmbeddingClientInterface
	if cfg.Embeddings.Provider != "" {
		c, err := utils.NewEmbeddingClient(context.Background(), cfg.Embeddings.Provider, cfg.Embeddings.APIKey, cfg.Embeddings.Model)
		if err != nil {
			logger.WithError(err).Warn("embeddings disabled")
		} else {
			client = c
			if closer, ok := c.(io.Closer); ok {
				lc.Append(fx.Hook{OnStop: func(context.Context) error { return closer.Close() }})
			}
		}
	}
	return services.NewEmbeddingService(client, repo, logger)
}
