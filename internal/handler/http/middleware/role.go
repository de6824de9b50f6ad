package middleware

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/fresco-hris/payroll-backend/internal/domain/user"
	"github.com/fresco-hris/payroll-backend/internal/handler/http/response"
	"github.com/fresco-hris/payroll-backend/internal/pkg/jwt"
)

// RequireOwner requires owner role
func RequireOwner(next http.Handler) http.Handler {
	return RequireRole(user.RoleOwner)(next)
}

// RequireRole admits callers holding any of roles.
func RequireRole(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := jwt.ClaimsFromContext(r.Context())
			if err != nil {
				response.HandleError(w, err)
				return
			}

			if !slices.Contains(roles, claims.Role) {
				if len(roles) == 1 && roles[0] == user.RoleOwner {
					response.HandleError(w, user.ErrOwnerAccessRequired)
					return
				}
				response.HandleError(w, user.ErrAdminAccessRequired)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission checks if user has specific permission
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := jwt.ClaimsFromContext(r.Context())
			if err != nil {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", permission))
				return
			}

			if !claims.Can(permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", permission, claims.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
