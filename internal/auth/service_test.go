package auth_test

import (
	"context"
	"flag"
	"os"
	"testing"
	"time"

	"github.com/koassets/rights-backend/internal/auth"
	"github.com/koassets/rights-backend/internal/config"
	"github.com/koassets/rights-backend/internal/review"
	"github.com/koassets/rights-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sharedRedis *testutil.TestRedis

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	sharedRedis = testutil.NewTestRedis(&testing.T{})

	code := m.Run()

	sharedRedis.Close()
	os.Exit(code)
}

type fakeDirectory struct {
	users map[string]*review.RosterUser
}

func (d *fakeDirectory) GetUser(ctx context.Context, email string) (*review.RosterUser, error) {
	if u, ok := d.users[email]; ok {
		return u, nil
	}
	return nil, review.ErrNotFound
}

func newAuthService(t *testing.T, cfg config.AuthConfig) *auth.AuthService {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	sharedRedis.Flush(t)

	jwtSvc, err := auth.NewJWTService([]byte("test-signing-key"), "ko-assets-rights", time.Hour)
	require.NoError(t, err)

	dir := &fakeDirectory{users: map[string]*review.RosterUser{
		"reviewer@ko.com": {Email: "reviewer@ko.com", Permissions: []string{"rr"}},
	}}

	return auth.NewAuthService(sharedRedis.Client, jwtSvc, dir, cfg)
}

func defaultAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		OTPExpiry:      10 * time.Minute,
		OTPCooldown:    time.Minute,
		OTPMaxAttempts: 3,
		RefreshExpiry:  24 * time.Hour,
	}
}

func TestRequestOTP_UnknownUser(t *testing.T) {
	svc := newAuthService(t, defaultAuthConfig())

	_, err := svc.RequestOTP(context.Background(), "stranger@ko.com")
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestRequestOTP_Cooldown(t *testing.T) {
	svc := newAuthService(t, defaultAuthConfig())
	ctx := context.Background()

	_, err := svc.RequestOTP(ctx, "reviewer@ko.com")
	require.NoError(t, err)

	_, err = svc.RequestOTP(ctx, "reviewer@ko.com")
	assert.ErrorIs(t, err, auth.ErrOTPCooldown)
}

func TestVerifyOTP_RoundTrip(t *testing.T) {
	svc := newAuthService(t, defaultAuthConfig())
	ctx := context.Background()

	code, err := svc.RequestOTP(ctx, "Reviewer@KO.com")
	require.NoError(t, err)
	require.Len(t, code, 6)

	access, refresh, err := svc.VerifyOTP(ctx, "reviewer@ko.com", code)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	// code is single-use
	_, _, err = svc.VerifyOTP(ctx, "reviewer@ko.com", code)
	assert.ErrorIs(t, err, auth.ErrOTPInvalid)
}

func TestVerifyOTP_MaxAttempts(t *testing.T) {
	svc := newAuthService(t, defaultAuthConfig())
	ctx := context.Background()

	_, err := svc.RequestOTP(ctx, "reviewer@ko.com")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, _, err = svc.VerifyOTP(ctx, "reviewer@ko.com", "000000")
		assert.ErrorIs(t, err, auth.ErrOTPInvalid)
	}

	_, _, err = svc.VerifyOTP(ctx, "reviewer@ko.com", "000000")
	assert.ErrorIs(t, err, auth.ErrOTPMaxAttempts)
}

func TestRefresh_RotatesToken(t *testing.T) {
	svc := newAuthService(t, defaultAuthConfig())
	ctx := context.Background()

	code, err := svc.RequestOTP(ctx, "reviewer@ko.com")
	require.NoError(t, err)
	_, refresh, err := svc.VerifyOTP(ctx, "reviewer@ko.com", code)
	require.NoError(t, err)

	newAccess, newRefresh, err := svc.Refresh(ctx, refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, newAccess)
	assert.NotEqual(t, refresh, newRefresh)

	// old refresh token is dead after rotation
	_, _, err = svc.Refresh(ctx, refresh)
	assert.ErrorIs(t, err, auth.ErrRefreshInvalid)
}

func TestLogout(t *testing.T) {
	svc := newAuthService(t, defaultAuthConfig())
	ctx := context.Background()

	code, err := svc.RequestOTP(ctx, "reviewer@ko.com")
	require.NoError(t, err)
	_, refresh, err := svc.VerifyOTP(ctx, "reviewer@ko.com", code)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, refresh))

	_, _, err = svc.Refresh(ctx, refresh)
	assert.ErrorIs(t, err, auth.ErrRefreshInvalid)
}
