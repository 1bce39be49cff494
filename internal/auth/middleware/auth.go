package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/aktywni/backend/internal/auth/service"
	"github.com/aktywni/backend/internal/models"
)

type contextKey string

const (
	userIDKey contextKey = "userID"
	roleKey   contextKey = "role"
)

// AuthMiddleware validates the bearer token and puts userID and role into the
// request context
func AuthMiddleware(tokenGenerator *service.TokenGenerator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, role, ok := authenticate(w, r, tokenGenerator)
			if !ok {
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			ctx = context.WithValue(ctx, roleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authenticate extracts and validates the bearer token. When validation fails
// it writes the 401 response and returns ok=false.
func authenticate(w http.ResponseWriter, r *http.Request, tokenGenerator *service.TokenGenerator) (int, models.Role, bool) {
	var token string

	// Expected format: "Bearer <token>"
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			token = parts[1]
		}
	}

	if token == "" {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return 0, "", false
	}

	userID, role, err := tokenGenerator.ValidateToken(token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid or expired token")
		return 0, "", false
	}

	return userID, role, true
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + message + `"}`))
}

// GetUserID retrieves the user ID from context
func GetUserID(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(userIDKey).(int)
	return userID, ok
}

// GetRole retrieves the user role from context
func GetRole(ctx context.Context) (models.Role, bool) {
	role, ok := ctx.Value(roleKey).(models.Role)
	return role, ok
}
