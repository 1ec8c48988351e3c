package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"nlquery/internal/common/errors"
)

type contextKey struct{}

// ClaimsFromContext returns the verified identity attached by Middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(contextKey{}).(*Claims)
	return claims, ok
}

// Middleware rejects requests without a valid bearer token and attaches the
// verified claims to the request context.
func Middleware(svc *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w, "Access denied. No token provided.")
				return
			}

			token := strings.TrimPrefix(header, "Bearer ")
			claims, err := svc.VerifyToken(token)
			if err != nil {
				message := "Invalid token. Authentication failed."
				var stdErr *errors.StandardError
				if e, ok := err.(*errors.StandardError); ok {
					stdErr = e
				}
				if stdErr != nil && stdErr.Code == errors.ErrCodeTokenExpired {
					message = "Token expired. Please log in again."
				}
				unauthorized(w, message)
				return
			}

			ctx := context.WithValue(r.Context(), contextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
