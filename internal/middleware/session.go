package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/strandluxe/storefront/internal/cookie"
)

const (
	// SessionIDContextKey is the context key for the browser session ID
	SessionIDContextKey contextKey = "session_id"

	// SessionMaxAge is how long the browser session cookie lives (30 days)
	SessionMaxAge = 30 * 24 * 60 * 60
)

// WithSession guarantees every request carries a browser session ID. A new
// visitor gets a fresh ID set as a cookie; returning visitors keep theirs.
// The ID keys the per-session cart panel and checkout state, so this must
// run before any handler that touches either.
func WithSession(cookies *cookie.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := cookie.Get(r, cookie.SessionCookieName)
			if sessionID == "" {
				sessionID = uuid.New().String()
				cookies.Set(w, cookie.SessionCookieName, sessionID, SessionMaxAge)
			}

			ctx := context.WithValue(r.Context(), SessionIDContextKey, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionID retrieves the browser session ID from the context.
// Returns an empty string if WithSession has not run.
func GetSessionID(ctx context.Context) string {
	if id, ok := ctx.Value(SessionIDContextKey).(string); ok {
		return id
	}
	return ""
}
