package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/bazaar/pkg/auth"
	"github.com/shashiranjanraj/bazaar/pkg/response"
)

type claimsKey struct{}

// Auth validates the Bearer token and stores the decoded claims in the
// request context. The engine trusts this identity completely; every
// protected handler reads it via CurrentClaims.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		if token == "" {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects any request whose token does not carry the admin
// role. Must be chained after Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := CurrentClaims(r.Context())
		if claims == nil || !claims.IsAdmin() {
			response.Forbidden(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentClaims returns the authenticated claims stored by Auth, or nil.
func CurrentClaims(ctx context.Context) *auth.Claims {
	if c, ok := ctx.Value(claimsKey{}).(*auth.Claims); ok {
		return c
	}
	return nil
}

// CurrentUserID returns the authenticated user ID, or 0 when unauthenticated.
func CurrentUserID(ctx context.Context) uint {
	if c := CurrentClaims(ctx); c != nil {
		return c.UserID
	}
	return 0
}
