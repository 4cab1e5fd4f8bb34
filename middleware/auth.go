package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/damienaltman42/sb1-u3qtxy/utils"
)

// AuthMiddleware requires a valid Bearer access token and puts the user id
// and role into the request context.
func AuthMiddleware(issuer *utils.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			tokenStr := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))

			claims, err := issuer.ValidateAccessToken(r.Context(), tokenStr)
			if err != nil {
				if errors.Is(err, utils.ErrTokenExpired) {
					utils.WriteError(w, http.StatusUnauthorized, "Session expired, please log in again")
					return
				}
				utils.WriteError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx := utils.ContextWithUser(r.Context(), claims.UserID, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerClaims validates the request's token without rejecting the request.
// Handlers that need the raw claims (logout) use it.
func BearerClaims(issuer *utils.TokenIssuer, r *http.Request) (*utils.AccessClaims, error) {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return nil, utils.ErrTokenInvalid
	}
	return issuer.ValidateAccessToken(r.Context(), strings.TrimSpace(strings.TrimPrefix(authz, "Bearer ")))
}

// RequireRole lets the request through only when the authenticated user has role.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if utils.GetUserRole(r) != role {
				utils.WriteError(w, http.StatusForbidden, "Access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
