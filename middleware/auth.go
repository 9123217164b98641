package middleware

import (
	"context"
	"net/http"
	"os"
	"strings"

	"cove_server/helpers"
	"cove_server/models"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const identityKey contextKey = "identity"

// Authenticate verifies the Bearer token and stores the caller's Identity
// in the request context. Services never read ambient signed-in state;
// handlers pull the identity out and pass it explicitly.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			helpers.WriteErrorResponse(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			helpers.WriteErrorResponse(w, http.StatusUnauthorized, "invalid token")
			return
		}

		sub, _ := claims["sub"].(string)
		if sub == "" {
			helpers.WriteErrorResponse(w, http.StatusUnauthorized, "invalid token")
			return
		}
		name, _ := claims["name"].(string)
		if name == "" {
			name = "Member"
		}

		identity := models.Identity{ID: sub, DisplayName: name}
		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityFromContext returns the authenticated caller, if any
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(models.Identity)
	return identity, ok
}

// WithIdentity injects an identity into a context. Used by tests and by
// internal calls made outside the HTTP path.
func WithIdentity(ctx context.Context, identity models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}
