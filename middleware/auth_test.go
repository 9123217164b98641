package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"cove_server/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAuthenticate(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	var captured models.Identity
	var called bool
	handler := Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, called = models.Identity{}, true
		identity, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		captured = identity
	}))

	t.Run("valid token", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodGet, "/api/coves", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.MapClaims{"sub": "user-1", "name": "Avery"}, testSecret))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		require.True(t, called)
		assert.Equal(t, "user-1", captured.ID)
		assert.Equal(t, "Avery", captured.DisplayName)
	})

	t.Run("missing name falls back to a default", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodGet, "/api/coves", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.MapClaims{"sub": "user-2"}, testSecret))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		require.True(t, called)
		assert.Equal(t, "Member", captured.DisplayName)
	})

	t.Run("no header", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodGet, "/api/coves", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodGet, "/api/coves", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.MapClaims{"sub": "user-1"}, "other-secret"))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token without sub", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodGet, "/api/coves", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.MapClaims{"name": "Ghost"}, testSecret))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestWithIdentity(t *testing.T) {
	ctx := WithIdentity(context.Background(), models.Identity{ID: "user-9", DisplayName: "Riley"})
	identity, ok := IdentityFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "user-9", identity.ID)

	_, ok = IdentityFromContext(context.Background())
	assert.False(t, ok)
}
