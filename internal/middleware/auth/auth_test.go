package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		value    string
		wantCode int
		wantUser string
	}{
		{"default header present", "", "u1", http.StatusOK, "u1"},
		{"custom header present", "X-Auth-Subject", "  u2 ", http.StatusOK, "u2"},
		{"missing", "", "", http.StatusUnauthorized, ""},
		{"blank", "", "   ", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := Middleware(tt.header, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = UserID(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/api/incomes", nil)
			name := tt.header
			if name == "" {
				name = DefaultHeader
			}
			if tt.value != "" {
				req.Header.Set(name, tt.value)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if got != tt.wantUser {
				t.Fatalf("user = %q, want %q", got, tt.wantUser)
			}
		})
	}
}

func TestMiddlewareCustomRejection(t *testing.T) {
	h := Middleware("", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})(http.NotFoundHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/incomes", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d, want 418", rec.Code)
	}
}

func TestUserIDWithoutMiddleware(t *testing.T) {
	if id := UserID(context.Background()); id != "" {
		t.Fatalf("UserID = %q, want empty", id)
	}
}
