package auth

import "context"

// RefreshTokenRepository stores hashes of issued refresh tokens.
type RefreshTokenRepository interface {
	Create(ctx context.Context, userID, token string, expiresAt int64) error
	// IsRevoked reports whether the token was revoked or has expired, and
	// returns the user it was issued to.
	IsRevoked(ctx context.Context, token string) (userID string, revoked bool, err error)
	Revoke(ctx context.Context, token string) error
}
