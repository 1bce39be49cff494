package middleware

import (
	"context"
	"net/http"

	"github.com/aktywni/backend/internal/auth/service"
	"github.com/aktywni/backend/internal/models"
)

// RoleMiddleware validates the bearer token and requires the given role
func RoleMiddleware(tokenGenerator *service.TokenGenerator, requiredRole models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, role, ok := authenticate(w, r, tokenGenerator)
			if !ok {
				return
			}

			if role != requiredRole {
				respondError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			ctx = context.WithValue(ctx, roleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
