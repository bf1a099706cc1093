package mem

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "blogpress:revoked:"

// RedisRevokedTokens shares revocations between API instances.
type RedisRevokedTokens struct {
	client goredis.UniversalClient
}

func NewRedisRevokedTokens(client goredis.UniversalClient) *RedisRevokedTokens {
	return &RedisRevokedTokens{client: client}
}

func (s *RedisRevokedTokens) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *RedisRevokedTokens) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return n > 0, nil
}
