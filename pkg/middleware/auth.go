package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/mux"

	"github.com/campusforge/placements/pkg/composables"
	"github.com/campusforge/placements/pkg/httpapi"
)

// ActorClaims is the JWT payload issued at login and consumed here. The
// decoded actor is what audit records store as the uploader.
type ActorClaims struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	FullName string `json:"fullName"`
	jwt.RegisteredClaims
}

// Authenticate verifies the bearer token and attaches the actor to the
// request context.
func Authenticate(secret string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				_ = httpapi.WriteError(w, http.StatusUnauthorized, "AUTH_REQUIRED", "authentication required", nil)
				return
			}

			claims := &ActorClaims{}
			_, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil {
				_ = httpapi.WriteError(w, http.StatusUnauthorized, "AUTH_INVALID_TOKEN", "invalid or expired token", nil)
				return
			}

			ctx := composables.WithUser(r.Context(), composables.Actor{
				ID:       claims.UserID,
				Username: claims.Username,
				FullName: claims.FullName,
				Role:     claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin guards a handler behind the admin role. It assumes
// Authenticate already ran.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := composables.UseUser(r.Context())
		if err != nil {
			_ = httpapi.WriteError(w, http.StatusUnauthorized, "AUTH_REQUIRED", "authentication required", nil)
			return
		}
		if !actor.IsAdmin() {
			_ = httpapi.WriteError(w, http.StatusForbidden, "AUTH_FORBIDDEN", "admin access required", nil)
			return
		}
		next(w, r)
	}
}
