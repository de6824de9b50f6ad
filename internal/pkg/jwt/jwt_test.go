package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/fresco-hris/payroll-backend/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_AccessTokenClaims(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt", time.Hour, 24*time.Hour, false)

	token, expiresAt, err := svc.GenerateAccessToken("user-1", "maria@fresco.ph", user.RoleAdmin)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	parsed, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	claims, err := parsed.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "admin", claims["role"])
	assert.Equal(t, TokenTypeAccess, claims["type"])
}

func TestJWTService_ParseRefreshToken(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt", time.Hour, 24*time.Hour, false)

	refresh, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)
	userID, err := svc.ParseRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	access, _, err := svc.GenerateAccessToken("user-1", "maria@fresco.ph", user.RoleEmployee)
	require.NoError(t, err)
	_, err = svc.ParseRefreshToken(access)
	assert.Error(t, err, "access token must not be accepted as refresh token")

	other := NewJWTService("another-secret", time.Hour, 24*time.Hour, false)
	_, err = other.ParseRefreshToken(refresh)
	assert.Error(t, err)
}

func TestJWTService_ExpiredRefreshToken(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt", time.Hour, time.Minute, false)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	refresh, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ParseRefreshToken(refresh)
	assert.Error(t, err)
}

func TestJWTService_RefreshTokenCookie(t *testing.T) {
	svc := NewJWTService("secret", time.Hour, time.Hour, true)
	cookie := svc.RefreshTokenCookie("tok", 1700000000)
	assert.Equal(t, "refresh_token", cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, "/api/v1/auth", cookie.Path)
}

func TestClaimsFromContext(t *testing.T) {
	_, err := ClaimsFromContext(context.Background())
	assert.Error(t, err)

	ctx := ContextWithClaims(context.Background(), Claims{UserID: "u-1", Email: "a@b.ph", Role: user.RoleEmployee})
	claims, err := ClaimsFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, user.RoleEmployee, claims.Role)
	assert.True(t, claims.Can(user.PermissionPayslipViewOwn))
	assert.False(t, claims.Can(user.PermissionPayrollRun))
}
