package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/munna7487/club-sphere-server/internal/models"
)

type contextKey string

const IdentityKey contextKey = "identity"

// IdentityFromContext returns the verified principal email, if any.
func IdentityFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(IdentityKey).(string)
	return email, ok && email != ""
}

// AuthMiddleware resolves a credential to a verified email. A present but
// invalid credential is rejected with 401; a request without any credential
// passes through anonymously and each operation decides whether it needs an
// identity. Accepts an API key, a bearer token, or the auth cookie, in that
// order.
func (h *AuthHandler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 1. Check for API Key Header
		apiKey := r.Header.Get("X-API-KEY")
		if apiKey != "" {
			var keyModel models.APIKey
			if err := h.db.Where("key = ?", apiKey).First(&keyModel).Error; err != nil {
				http.Error(w, "Unauthorized: Invalid API Key", http.StatusUnauthorized)
				return
			}
			if keyModel.ExpiresAt != nil && time.Now().After(*keyModel.ExpiresAt) {
				http.Error(w, "Unauthorized: API Key expired", http.StatusUnauthorized)
				return
			}

			h.db.Model(&keyModel).Update("last_used_at", time.Now())

			ctx := context.WithValue(r.Context(), IdentityKey, keyModel.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		// 2. Bearer token or JWT cookie
		tokenString := ""
		if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
			tokenString = strings.TrimPrefix(header, "Bearer ")
		} else if cookie, err := r.Cookie("auth_token"); err == nil {
			tokenString = cookie.Value
		}
		if tokenString == "" {
			// Anonymous request.
			next.ServeHTTP(w, r)
			return
		}

		email, err := h.VerifyToken(tokenString)
		if err != nil {
			http.Error(w, "Unauthorized: Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), IdentityKey, email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
