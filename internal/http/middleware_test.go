package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"myshop/internal/auth"
)

func TestAuthMiddleware(t *testing.T) {
	maker := auth.NewTokenMaker("test-secret", time.Hour)

	var seen *auth.Claims
	handler := Auth(maker)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ClaimsFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		r.Header.Set("Authorization", "Basic abc123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		r.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token attaches claims", func(t *testing.T) {
		token, err := maker.Generate("u1", "alice@example.com", "user")
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		require.Equal(t, "u1", seen.UserID)
	})
}

func TestAdminOnly(t *testing.T) {
	maker := auth.NewTokenMaker("test-secret", time.Hour)

	handler := Auth(maker)(AdminOnly(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	t.Run("regular user is rejected", func(t *testing.T) {
		token, err := maker.Generate("u1", "alice@example.com", "user")
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodPost, "/api/products", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)

		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin passes", func(t *testing.T) {
		token, err := maker.Generate("u2", "admin@example.com", "admin")
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodPost, "/api/products", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)

		require.Equal(t, http.StatusOK, rec.Code)
	})
}
