package mem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevokedTokensExpire(t *testing.T) {
	store := NewRevokedTokens()
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Minute))

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, _ = store.IsRevoked(ctx, "jti-2")
	assert.False(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, _ = store.IsRevoked(ctx, "jti-1")
	assert.False(t, revoked)
	assert.Empty(t, store.data)
}

func TestRevokeWithNonPositiveTTLIsNoop(t *testing.T) {
	store := NewRevokedTokens()
	require.NoError(t, store.Revoke(context.Background(), "jti", 0))
	assert.Empty(t, store.data)
}
