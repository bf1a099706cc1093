package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTripCarriesClaims(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	userID := uuid.New()

	token, issued, err := issuer.CreateToken(userID, RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, issued.ID)

	claims, err := issuer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestValidateTokenRejectsWrongSecretAndExpiry(t *testing.T) {
	issuer := NewTokenIssuer("secret-a", time.Minute)
	token, _, err := issuer.CreateToken(uuid.New(), RoleUser)
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret-b", time.Minute).ValidateToken(token)
	assert.Error(t, err)

	later := NewTokenIssuer("secret-a", time.Minute)
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = later.ValidateToken(token)
	assert.Error(t, err)
}
