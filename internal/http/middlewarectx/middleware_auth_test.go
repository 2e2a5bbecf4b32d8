package middlewarectx_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/chessclub-membership/internal/http/middlewarectx"
	"github.com/magabrotheeeer/chessclub-membership/internal/lib/jwt"
	"github.com/magabrotheeeer/chessclub-membership/internal/models"
)

// Mock for TokenValidator
type TokenValidatorMock struct {
	mock.Mock
}

func (m *TokenValidatorMock) ValidateToken(ctx context.Context, token string) (*jwt.CustomClaims, error) {
	args := m.Called(ctx, token)
	claims, _ := args.Get(0).(*jwt.CustomClaims)
	return claims, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestJWTMiddleware(t *testing.T) {
	authMock := new(TokenValidatorMock)
	logger := newNoopLogger()

	handlerCalled := false

	// Test handler which checks context values
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		dni := r.Context().Value(middlewarectx.Dni)
		email := r.Context().Value(middlewarectx.Email)
		roles := r.Context().Value(middlewarectx.Roles)
		assert.Equal(t, "12345678Z", dni)
		assert.Equal(t, "socio@club.es", email)
		assert.Equal(t, []string{models.RoleSocio}, roles)
		w.WriteHeader(http.StatusOK)
	})

	middleware := middlewarectx.JWTMiddleware(authMock, logger)(nextHandler)

	validClaims := &jwt.CustomClaims{
		Dni:   "12345678Z",
		Email: "socio@club.es",
		Roles: []string{models.RoleSocio},
	}

	tests := []struct {
		name           string
		authHeader     string
		mockClaims     *jwt.CustomClaims
		mockErr        error
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "missing Authorization header",
			authHeader:     "",
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "invalid Authorization header prefix",
			authHeader:     "Basic sometoken",
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "token validation error",
			authHeader:     "Bearer token",
			mockClaims:     nil,
			mockErr:        errors.New("token expired"),
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "valid token",
			authHeader:     "Bearer validtoken",
			mockClaims:     validClaims,
			mockErr:        nil,
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled = false
			authMock.ExpectedCalls = nil // reset calls
			authMock.Calls = nil
			if tt.mockClaims != nil || tt.mockErr != nil {
				authMock.On("ValidateToken", mock.Anything, strings.TrimPrefix(tt.authHeader, "Bearer ")).
					Return(tt.mockClaims, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodGet, "/somepath", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			rec := httptest.NewRecorder()

			middleware.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
			authMock.AssertExpectations(t)
		})
	}
}

func TestRequireRoles(t *testing.T) {
	logger := newNoopLogger()

	tests := []struct {
		name           string
		roles          []string
		allowed        []string
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "role allowed",
			roles:          []string{models.RoleSocio, models.RoleTesorero},
			allowed:        []string{models.RoleAdmin, models.RoleTesorero},
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
		{
			name:           "role missing",
			roles:          []string{models.RoleSocio},
			allowed:        []string{models.RoleAdmin, models.RolePresidente},
			wantStatusCode: http.StatusForbidden,
			wantCalled:     false,
		},
		{
			name:           "no roles in context",
			roles:          nil,
			allowed:        []string{models.RoleAdmin},
			wantStatusCode: http.StatusForbidden,
			wantCalled:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			middleware := middlewarectx.RequireRoles(logger, tt.allowed...)(nextHandler)

			req := httptest.NewRequest(http.MethodGet, "/somepath", nil)
			if tt.roles != nil {
				ctx := context.WithValue(req.Context(), middlewarectx.Roles, tt.roles)
				req = req.WithContext(ctx)
			}

			rec := httptest.NewRecorder()
			middleware.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
		})
	}
}
