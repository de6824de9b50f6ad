package auth

import (
	"context"
	"testing"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/auth"
	"github.com/fresco-hris/payroll-backend/internal/domain/user"
	"github.com/fresco-hris/payroll-backend/internal/pkg/jwt"
	"github.com/fresco-hris/payroll-backend/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key-for-jwt"

type authFixture struct {
	svc    auth.AuthService
	users  user.UserRepository
	userID string
}

func newAuthFixture(t *testing.T, active bool) authFixture {
	t.Helper()
	store := memory.NewStore()
	users := memory.NewUserRepository(store)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	u, err := users.Create(context.Background(), user.User{
		Email:        "login@fresco.ph",
		PasswordHash: string(hash),
		Role:         user.RoleAdmin,
		IsActive:     active,
	})
	require.NoError(t, err)

	jwtService := jwt.NewJWTService(testSecret, time.Hour, 24*time.Hour, false)
	svc := NewAuthService(store, users, jwtService, memory.NewRefreshTokenRepository(store))
	return authFixture{svc: svc, users: users, userID: u.ID}
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture(t, true)

	resp, err := f.svc.Login(context.Background(), auth.LoginRequest{Email: "login@fresco.ph", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Greater(t, resp.RefreshTokenExpiresAt, resp.AccessTokenExpiresAt)
}

func TestAuthService_Login_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthFixture(t, true)
		_, err := f.svc.Login(ctx, auth.LoginRequest{Email: "login@fresco.ph", Password: "nope-nope"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newAuthFixture(t, true)
		_, err := f.svc.Login(ctx, auth.LoginRequest{Email: "ghost@fresco.ph", Password: "password123"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		f := newAuthFixture(t, false)
		_, err := f.svc.Login(ctx, auth.LoginRequest{Email: "login@fresco.ph", Password: "password123"})
		assert.ErrorIs(t, err, auth.ErrAccountInactive)
	})

	t.Run("invalid request", func(t *testing.T) {
		f := newAuthFixture(t, true)
		_, err := f.svc.Login(ctx, auth.LoginRequest{Email: "not-an-email"})
		assert.Error(t, err)
	})
}

func TestAuthService_RefreshAndLogout(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, true)

	tokens, err := f.svc.Login(ctx, auth.LoginRequest{Email: "login@fresco.ph", Password: "password123"})
	require.NoError(t, err)

	refreshed, err := f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken, "access tokens cannot refresh")

	require.NoError(t, f.svc.Logout(ctx, tokens.RefreshToken))
	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)

	require.NoError(t, f.svc.Logout(ctx, tokens.RefreshToken), "logout is idempotent")
}

func TestAuthService_Refresh_DeactivatedUser(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, true)

	tokens, err := f.svc.Login(ctx, auth.LoginRequest{Email: "login@fresco.ph", Password: "password123"})
	require.NoError(t, err)
	require.NoError(t, f.users.SetActive(ctx, f.userID, false))

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrAccountInactive)
}
