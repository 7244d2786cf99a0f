package middleware_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fearlessclothing/storefront-api/internal/api/middleware"
	"github.com/fearlessclothing/storefront-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testJwtKey = []byte("test-secret-key-123456789012345")

func createTestToken(t *testing.T, userID uuid.UUID, role string, duration time.Duration, key []byte) string {
	t.Helper()

	claims := &models.Claims{
		UserID: userID,
		Email:  "test@example.com",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	require.NoError(t, err)

	return token
}

func withTestLogger(req *http.Request) *http.Request {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.WithValue(req.Context(), middleware.LoggerKey, logger)

	return req.WithContext(ctx)
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	authMiddleware := middleware.NewAuthMiddleware(testJwtKey)
	userID := uuid.New()

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.ClaimsFromContext(r.Context())
		require.True(t, ok, "User claims should be in context")
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, models.RoleCustomer, claims.Role)

		require.NotNil(t, middleware.LoggerFromContext(r.Context()))

		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
	}{
		{
			name:           "Success - Valid Token",
			authHeader:     "Bearer " + createTestToken(t, userID, models.RoleCustomer, time.Hour, testJwtKey),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Fail - Missing Authorization Header",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Fail - No Bearer Prefix",
			authHeader:     "InvalidTokenFormat",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Fail - Malformed Token",
			authHeader:     "Bearer not.a.valid.token",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Fail - Wrong Signing Key",
			authHeader:     "Bearer " + createTestToken(t, userID, models.RoleCustomer, time.Hour, []byte("different-secret-key-0987654321")),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Fail - Expired Token",
			authHeader:     "Bearer " + createTestToken(t, userID, models.RoleCustomer, -time.Hour, testJwtKey),
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := withTestLogger(httptest.NewRequest(http.MethodGet, "/", nil))
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}

			rr := httptest.NewRecorder()

			authMiddleware.Authenticate(nextHandler).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
		})
	}
}

func TestAuthMiddleware_RequireAdmin(t *testing.T) {
	authMiddleware := middleware.NewAuthMiddleware(testJwtKey)

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("Success - Admin Role Passes", func(t *testing.T) {
		// Arrange
		token := createTestToken(t, uuid.New(), models.RoleAdmin, time.Hour, testJwtKey)

		req := withTestLogger(httptest.NewRequest(http.MethodGet, "/", nil))
		req.Header.Set("Authorization", "Bearer "+token)

		rr := httptest.NewRecorder()

		// Act
		authMiddleware.Authenticate(authMiddleware.RequireAdmin(nextHandler)).ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Fail - Customer Role Is Forbidden", func(t *testing.T) {
		// Arrange
		token := createTestToken(t, uuid.New(), models.RoleCustomer, time.Hour, testJwtKey)

		req := withTestLogger(httptest.NewRequest(http.MethodGet, "/", nil))
		req.Header.Set("Authorization", "Bearer "+token)

		rr := httptest.NewRecorder()

		// Act
		authMiddleware.Authenticate(authMiddleware.RequireAdmin(nextHandler)).ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("Fail - No Claims In Context", func(t *testing.T) {
		// Arrange
		req := withTestLogger(httptest.NewRequest(http.MethodGet, "/", nil))
		rr := httptest.NewRecorder()

		// Act
		authMiddleware.RequireAdmin(nextHandler).ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestNewAuthMiddleware(t *testing.T) {
	mw := middleware.NewAuthMiddleware([]byte("some-key"))
	assert.NotNil(t, mw)
}
