package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/M0narcHzZ/FitnessTracker/internal/auth"
)

func TestAuthMiddleware(t *testing.T) {
	loginChecker := auth.NewLoginTestChecker()
	loginChecker.LoggedSessions["valid-token"] = true

	authMiddleware := NewAuthMiddlewareHandler(loginChecker)
	next := &authTestHandler{}
	handler := authMiddleware.AuthCheck()(next)

	testCases := []struct {
		name           string
		method         string
		path           string
		token          string
		expectNext     bool
		expectedStatus int
	}{
		{
			name:           "options always allowed",
			method:         http.MethodOptions,
			path:           "/users/1/measurements",
			expectNext:     false,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "login path allowed without token",
			method:         http.MethodPost,
			path:           "/a/login",
			expectNext:     true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "root allowed without token",
			method:         http.MethodGet,
			path:           "/",
			expectNext:     true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "photo file allowed without token",
			method:         http.MethodGet,
			path:           "/photos/33/file",
			expectNext:     true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "protected path without token",
			method:         http.MethodGet,
			path:           "/users/1/measurements",
			expectNext:     false,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "protected path with invalid token",
			method:         http.MethodGet,
			path:           "/users/1/measurements",
			token:          "bogus",
			expectNext:     false,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "protected path with valid token",
			method:         http.MethodGet,
			path:           "/users/1/measurements",
			token:          "valid-token",
			expectNext:     true,
			expectedStatus: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			next.called = false
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.token != "" {
				req.Header.Set("X-FITNESS-TOKEN", tc.token)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectNext, next.called)
			assert.Equal(t, tc.expectedStatus, rr.Code)
		})
	}
}

type authTestHandler struct {
	called bool
}

func (h *authTestHandler) ServeHTTP(http.ResponseWriter, *http.Request) {
	h.called = true
}
