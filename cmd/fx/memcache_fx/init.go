package memcache_fx

import (
	"context"

	"go.uber.org/fx"

	"blogpress/internal/config"
	"blogpress/internal/infra"
	"blogpress/pkg/logging"
	mem "blogpress/pkg/memcache"
)

var Module = fx.Provide(provideRevokedTokenStore)

// provideRevokedTokenStore shares revocations through Redis when REDIS_URL
// is set so every replica sees a logout. Otherwise revocations stay local.
func provideRevokedTokenStore(lc fx.Lifecycle, cfg config.Config, logger logging.Logger) (mem.RevokedTokenStore, error) {
	if cfg.Redis.URL == "" {
		logger.Info("revoked tokens kept in memory")
		return mem.NewRevokedTokens(), nil
	}

	client, err := infra.NewRedisClient(context.Background(), cfg.Redis.URL)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return mem.NewRedisRevokedTokens(client), nil
}
