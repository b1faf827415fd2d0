package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/koassets/rights-backend/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWTService(t *testing.T, expiry time.Duration) *auth.JWTService {
	t.Helper()
	svc, err := auth.NewJWTService([]byte("test-signing-key"), "ko-assets-rights", expiry)
	require.NoError(t, err)
	return svc
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newJWTService(t, time.Hour)
	ctx := context.Background()

	token, err := svc.GenerateToken(ctx, "reviewer@ko.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "reviewer@ko.com", claims.Email)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := newJWTService(t, -time.Minute)
	ctx := context.Background()

	token, err := svc.GenerateToken(ctx, "reviewer@ko.com")
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, token)
	assert.Error(t, err)
}

func TestValidateToken_WrongKey(t *testing.T) {
	svc := newJWTService(t, time.Hour)
	other, err := auth.NewJWTService([]byte("different-key"), "ko-assets-rights", time.Hour)
	require.NoError(t, err)

	token, err := svc.GenerateToken(context.Background(), "reviewer@ko.com")
	require.NoError(t, err)

	_, err = other.ValidateToken(context.Background(), token)
	assert.Error(t, err)
}

func TestValidateToken_WrongIssuer(t *testing.T) {
	svc := newJWTService(t, time.Hour)
	other, err := auth.NewJWTService([]byte("test-signing-key"), "someone-else", time.Hour)
	require.NoError(t, err)

	token, err := other.GenerateToken(context.Background(), "reviewer@ko.com")
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), token)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := newJWTService(t, time.Hour)

	_, err := svc.ValidateToken(context.Background(), "not-a-token")
	assert.Error(t, err)
}
