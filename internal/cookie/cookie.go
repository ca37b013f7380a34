// Package cookie centralizes the storefront's cookie handling. Session,
// remote cart, and auth token cookies all go through here so scoping and
// flags stay consistent.
package cookie

import "net/http"

// Config holds cookie configuration.
type Config struct {
	// Domain scopes the cookies. Empty means host-only cookies.
	Domain string

	// Secure determines whether cookies require HTTPS.
	// Should be true in production, false in development.
	Secure bool
}

// NewConfig creates a new cookie configuration.
func NewConfig(domain string, secure bool) *Config {
	return &Config{Domain: domain, Secure: secure}
}

// Set sets an HttpOnly cookie on the configured domain.
func (c *Config) Set(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Domain:   c.Domain,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear removes a cookie by setting MaxAge to -1. The domain must match
// the original cookie's domain.
func (c *Config) Clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Domain:   c.Domain,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Get retrieves a cookie value from the request.
// Returns empty string if cookie not found.
func Get(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Common cookie names used throughout the application.
const (
	// SessionCookieName identifies the anonymous browser session that
	// scopes the panel store and checkout state.
	SessionCookieName = "strandluxe_session"

	// CartCookieName stores the remote cart id.
	CartCookieName = "strandluxe_cart"

	// TokenCookieName stores the customer auth token.
	TokenCookieName = "strandluxe_token"
)
