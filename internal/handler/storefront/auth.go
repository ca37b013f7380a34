package storefront

import (
	"net/http"

	"github.com/strandluxe/storefront/internal/commerce"
	"github.com/strandluxe/storefront/internal/cookie"
	"github.com/strandluxe/storefront/internal/domain"
	"github.com/strandluxe/storefront/internal/middleware"
	"github.com/strandluxe/storefront/internal/telemetry"
)

// tokenCookieMaxAge keeps the customer signed in for 7 days. The platform
// token itself expires sooner or later than this on its own schedule; the
// platform's 401 is what actually ends a session.
const tokenCookieMaxAge = 7 * 24 * 60 * 60

// AuthHandler relays customer registration and sign-in to the platform.
// Credentials are never stored here; the platform token rides in an
// http-only cookie.
type AuthHandler struct {
	client  commerce.Client
	cookies *cookie.Config
	metrics *telemetry.BusinessMetrics
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(client commerce.Client, cookies *cookie.Config, metrics *telemetry.BusinessMetrics) *AuthHandler {
	return &AuthHandler{
		client:  client,
		cookies: cookies,
		metrics: metrics,
	}
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Phone     string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	token, customer, err := h.client.RegisterCustomer(r.Context(), commerce.RegisterParams{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.Signups.Inc()
	}

	h.cookies.Set(w, cookie.TokenCookieName, token, tokenCookieMaxAge)
	respondJSON(w, http.StatusCreated, map[string]interface{}{"customer": customer})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	token, err := h.client.LoginCustomer(r.Context(), req.Email, req.Password)
	if err != nil {
		if h.metrics != nil && domain.ErrorCode(err) == domain.EUNAUTHORIZED {
			h.metrics.LoginFailed.Inc()
		}
		respondError(w, r, err)
		return
	}

	customer, err := h.client.RetrieveCustomer(r.Context(), token)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.Logins.Inc()
	}

	h.cookies.Set(w, cookie.TokenCookieName, token, tokenCookieMaxAge)
	respondJSON(w, http.StatusOK, map[string]interface{}{"customer": customer})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.Clear(w, cookie.TokenCookieName)
	respondJSON(w, http.StatusOK, map[string]interface{}{"signed_out": true})
}

// Me handles GET /api/auth/me. Requires a signed-in customer.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetCustomerToken(r.Context())

	customer, err := h.client.RetrieveCustomer(r.Context(), token)
	if err != nil {
		// An expired or revoked token is a dead cookie.
		if domain.ErrorCode(err) == domain.EUNAUTHORIZED {
			h.cookies.Clear(w, cookie.TokenCookieName)
		}
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"customer": customer})
}
