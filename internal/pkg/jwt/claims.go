package jwt

import (
	"context"

	"github.com/fresco-hris/payroll-backend/internal/domain/auth"
	"github.com/fresco-hris/payroll-backend/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Claims is the caller identity carried by a verified access token.
type Claims struct {
	UserID string
	Email  string
	Role   user.Role
}

func (c Claims) Can(p user.Permission) bool {
	return user.HasPermission(c.Role, p)
}

// ClaimsFromContext reads the identity jwtauth.Verifier stored on ctx.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, auth.ErrMissingClaims
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Claims{}, auth.ErrMissingClaims
	}
	roleStr, ok := claims["role"].(string)
	if !ok {
		return Claims{}, auth.ErrMissingClaims
	}
	role, err := user.ParseRole(roleStr)
	if err != nil {
		return Claims{}, auth.ErrMissingClaims
	}
	email, _ := claims["email"].(string)

	return Claims{UserID: userID, Email: email, Role: role}, nil
}

// ContextWithClaims stores an unsigned token carrying c. Used by background
// jobs acting as a system user and by tests.
func ContextWithClaims(ctx context.Context, c Claims) context.Context {
	token := jwt.New()
	_ = token.Set("user_id", c.UserID)
	_ = token.Set("email", c.Email)
	_ = token.Set("role", string(c.Role))
	_ = token.Set("type", TokenTypeAccess)
	return jwtauth.NewContext(ctx, token, nil)
}
