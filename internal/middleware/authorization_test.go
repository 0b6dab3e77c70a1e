package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"catalog-api/internal/domain"

	"go.uber.org/zap"
)

func requestWithRole(role string) *http.Request {
	req := httptest.NewRequest("POST", "/test", nil)
	ctx := context.WithValue(req.Context(), UserRoleKey, role)
	return req.WithContext(ctx)
}

func TestRequireAdmin(t *testing.T) {
	logger := zap.NewNop()

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		req        *http.Request
		wantStatus int
	}{
		{"admin role passes", requestWithRole(domain.RoleAdmin), http.StatusOK},
		// An authenticated non-admin is forbidden, not unauthorized
		{"user role is forbidden", requestWithRole(domain.RoleUser), http.StatusForbidden},
		{"unknown role is forbidden", requestWithRole("superuser"), http.StatusForbidden},
		{"missing role is forbidden", httptest.NewRequest("POST", "/test", nil), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			RequireAdmin(logger)(okHandler).ServeHTTP(w, tt.req)

			if w.Code != tt.wantStatus {
				t.Errorf("got status %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequireRoleAllowsAnyListedRole(t *testing.T) {
	logger := zap.NewNop()

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mw := RequireRole([]string{domain.RoleUser, domain.RoleAdmin}, logger)

	for _, role := range []string{domain.RoleUser, domain.RoleAdmin} {
		w := httptest.NewRecorder()
		mw(okHandler).ServeHTTP(w, requestWithRole(role))

		if w.Code != http.StatusOK {
			t.Errorf("role %q: got status %d, want 200", role, w.Code)
		}
	}

	w := httptest.NewRecorder()
	mw(okHandler).ServeHTTP(w, requestWithRole("guest"))
	if w.Code != http.StatusForbidden {
		t.Errorf("role guest: got status %d, want 403", w.Code)
	}
}
