package middleware

import (
	"context"
	"net/http"

	"github.com/strandluxe/storefront/internal/cookie"
)

const (
	// CustomerTokenContextKey is the context key for the customer auth token
	CustomerTokenContextKey contextKey = "customer_token"
)

// WithCustomerToken copies the customer auth token cookie into the request
// context when present. It never rejects: catalog and cart endpoints work
// for guests, and handlers that need the token pair this with
// RequireCustomer.
func WithCustomerToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := cookie.Get(r, cookie.TokenCookieName)
		if token != "" {
			ctx := context.WithValue(r.Context(), CustomerTokenContextKey, token)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireCustomer rejects requests that carry no customer auth token with
// 401. The token itself is validated downstream by the commerce platform;
// this gate only keeps anonymous traffic off account endpoints.
func RequireCustomer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetCustomerToken(r.Context()) == "" {
			respondUnauthorized(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetCustomerToken retrieves the customer auth token from the context.
// Returns an empty string for guest requests.
func GetCustomerToken(ctx context.Context) string {
	if token, ok := ctx.Value(CustomerTokenContextKey).(string); ok {
		return token
	}
	return ""
}
