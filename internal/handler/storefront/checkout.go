package storefront

import (
	"net/http"

	"github.com/strandluxe/storefront/internal/cart"
	"github.com/strandluxe/storefront/internal/checkout"
	"github.com/strandluxe/storefront/internal/cookie"
	"github.com/strandluxe/storefront/internal/domain"
	"github.com/strandluxe/storefront/internal/middleware"
)

// CheckoutHandler drives the staged checkout flow. Each POST advances (or
// retries) one stage; every response is the session's full state snapshot
// so the client can render without tracking deltas.
type CheckoutHandler struct {
	sessions     *checkout.Registry
	carts        *cart.Registry
	orchestrator *checkout.Orchestrator
	cookies      *cookie.Config
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(sessions *checkout.Registry, carts *cart.Registry, orchestrator *checkout.Orchestrator, cookies *cookie.Config) *CheckoutHandler {
	return &CheckoutHandler{
		sessions:     sessions,
		carts:        carts,
		orchestrator: orchestrator,
		cookies:      cookies,
	}
}

type submitAddressRequest struct {
	Email   string         `json:"email" validate:"required,email"`
	Address addressPayload `json:"address" validate:"required"`
}

type addressPayload struct {
	FirstName    string `json:"first_name" validate:"required"`
	LastName     string `json:"last_name" validate:"required"`
	Company      string `json:"company"`
	AddressLine1 string `json:"address_line_1" validate:"required"`
	AddressLine2 string `json:"address_line_2"`
	City         string `json:"city" validate:"required"`
	Province     string `json:"province"`
	PostalCode   string `json:"postal_code" validate:"required"`
	CountryCode  string `json:"country_code" validate:"required,len=2"`
	Phone        string `json:"phone"`
}

type selectShippingRequest struct {
	OptionID string `json:"option_id" validate:"required"`
}

type confirmPaymentRequest struct {
	PaymentMethodID string `json:"payment_method_id" validate:"required"`
}

func (h *CheckoutHandler) session(r *http.Request) *checkout.Session {
	return h.sessions.For(middleware.GetSessionID(r.Context()))
}

// Get handles GET /api/checkout
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.session(r).State())
}

// Start handles POST /api/checkout/start. The platform cart referenced by
// the cart cookie becomes the cart being checked out.
func (h *CheckoutHandler) Start(w http.ResponseWriter, r *http.Request) {
	cartID := cookie.Get(r, cookie.CartCookieName)
	if cartID == "" {
		respondError(w, r, domain.Invalid("CheckoutHandler.Start", "There is no cart to check out"))
		return
	}

	state, err := h.orchestrator.Start(r.Context(), h.session(r), cartID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

// SubmitAddress handles POST /api/checkout/address
func (h *CheckoutHandler) SubmitAddress(w http.ResponseWriter, r *http.Request) {
	var req submitAddressRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	addr := domain.Address{
		FirstName:    req.Address.FirstName,
		LastName:     req.Address.LastName,
		Company:      req.Address.Company,
		AddressLine1: req.Address.AddressLine1,
		AddressLine2: req.Address.AddressLine2,
		City:         req.Address.City,
		Province:     req.Address.Province,
		PostalCode:   req.Address.PostalCode,
		CountryCode:  req.Address.CountryCode,
		Phone:        req.Address.Phone,
	}

	state, err := h.orchestrator.SubmitAddress(r.Context(), h.session(r), req.Email, addr)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

// SelectShipping handles POST /api/checkout/shipping
func (h *CheckoutHandler) SelectShipping(w http.ResponseWriter, r *http.Request) {
	var req selectShippingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	state, err := h.orchestrator.SelectShippingOption(r.Context(), h.session(r), req.OptionID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

// ConfirmPayment handles POST /api/checkout/payment. On success the cart
// cookie is cleared: the platform cart no longer exists once it has been
// converted to an order.
func (h *CheckoutHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req confirmPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	panel := h.carts.For(middleware.GetSessionID(r.Context()))

	state, err := h.orchestrator.ConfirmPayment(r.Context(), h.session(r), panel, req.PaymentMethodID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.cookies.Clear(w, cookie.CartCookieName)
	respondJSON(w, http.StatusOK, state)
}

// RefreshPayment handles POST /api/checkout/payment/refresh. Called after
// the shopper returns from an off-site authentication step; completes
// checkout when the processor reports the funds captured.
func (h *CheckoutHandler) RefreshPayment(w http.ResponseWriter, r *http.Request) {
	panel := h.carts.For(middleware.GetSessionID(r.Context()))

	state, err := h.orchestrator.RefreshPayment(r.Context(), h.session(r), panel)
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.cookies.Clear(w, cookie.CartCookieName)
	respondJSON(w, http.StatusOK, state)
}

// Reset handles POST /api/checkout/reset. Abandons the session; any run
// still in flight will have its result discarded.
func (h *CheckoutHandler) Reset(w http.ResponseWriter, r *http.Request) {
	s := h.session(r)
	s.Reset()

	respondJSON(w, http.StatusOK, s.State())
}
