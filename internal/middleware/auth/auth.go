// Package auth resolves the caller's identity from a header set by the
// authenticating proxy in front of the API.
package auth

import (
	"context"
	"net/http"
	"strings"

	"fintrack/internal/log"
)

// DefaultHeader carries the authenticated user id.
const DefaultHeader = "X-User-ID"

type contextKey struct{}

// WithUser returns ctx carrying userID.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserID returns the user id stored by the middleware, or "".
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

// Middleware rejects requests without a user id header by calling onMissing
// (a bare 401 when nil) and stores the id in the request context otherwise.
func Middleware(header string, onMissing func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	if header == "" {
		header = DefaultHeader
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := strings.TrimSpace(r.Header.Get(header))
			if userID == "" {
				if onMissing != nil {
					onMissing(w, r)
				} else {
					http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				}
				return
			}
			ctx := WithUser(r.Context(), userID)
			logger := log.FromContext(ctx).With(log.FieldUserID, userID)
			next.ServeHTTP(w, r.WithContext(log.NewContext(ctx, logger)))
		})
	}
}
