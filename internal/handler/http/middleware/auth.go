package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/fresco-hris/payroll-backend/internal/domain/auth"
	"github.com/fresco-hris/payroll-backend/internal/domain/user"
	"github.com/fresco-hris/payroll-backend/internal/handler/http/response"
	"github.com/fresco-hris/payroll-backend/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AccountLookup loads the account behind a token. user.UserRepository
// satisfies it.
type AccountLookup interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

// AuthRequired admits verified access tokens. With a non-nil accounts lookup
// it also rejects tokens of deleted or deactivated accounts, so deactivation
// takes effect before the access token expires.
func AuthRequired(accounts AccountLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, tokenClaims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}
			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if tokenType, ok := tokenClaims["type"].(string); !ok || tokenType != jwt.TokenTypeAccess {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if accounts != nil {
				claims, err := jwt.ClaimsFromContext(r.Context())
				if err != nil {
					response.HandleError(w, err)
					return
				}
				account, err := accounts.GetByID(r.Context(), claims.UserID)
				if errors.Is(err, user.ErrUserNotFound) {
					response.HandleError(w, auth.ErrInvalidToken)
					return
				}
				if err != nil {
					response.HandleError(w, err)
					return
				}
				if !account.IsActive {
					response.HandleError(w, auth.ErrAccountInactive)
					return
				}
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
