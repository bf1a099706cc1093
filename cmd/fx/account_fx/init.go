package account_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"blogpress/internal/config"
	"blogpress/internal/repositories"
	"blogpress/internal/services"
	"blogpress/pkg/logging"
	mem "blogpress/pkg/memcache"
	"blogpress/pkg/utils"
)

var Module = fx.Provide(
	provideAccountService, provideAccountRepo, provideTokenIssuer)

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideTokenIssuer(cfg config.Config) *utils.TokenIssuer {
	return utils.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
}

func provideAccountService(
	accountRepo repositories.AccountRepository,
	tokens *utils.TokenIssuer,
	revoked mem.RevokedTokenStore,
	logger logging.Logger,
) services.AccountServiceInterface {
	return services.NewAccountService(accountRepo, tokens, revoked, logger)
}
