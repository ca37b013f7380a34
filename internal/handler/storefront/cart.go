package storefront

import (
	"net/http"

	"github.com/strandluxe/storefront/internal/commerce"
	"github.com/strandluxe/storefront/internal/cookie"
	"github.com/strandluxe/storefront/internal/domain"
)

// cartCookieMaxAge keeps the platform cart pinned to the browser for 14
// days, matching the platform's own cart retention window.
const cartCookieMaxAge = 14 * 24 * 60 * 60

// CartHandler manages the platform-held cart. The cart ID rides in a
// cookie; every response body is the platform's own cart snapshot with
// remotely computed totals.
type CartHandler struct {
	client  commerce.Client
	cookies *cookie.Config
	regions *RegionCache
}

// NewCartHandler creates a new cart handler
func NewCartHandler(client commerce.Client, cookies *cookie.Config, regions *RegionCache) *CartHandler {
	return &CartHandler{
		client:  client,
		cookies: cookies,
		regions: regions,
	}
}

type addCartItemRequest struct {
	VariantID string `json:"variant_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// Get handles GET /api/cart. A visitor without a cart gets a null cart,
// not an error; carts are only created by the first mutating action.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cartID := cookie.Get(r, cookie.CartCookieName)
	if cartID == "" {
		respondJSON(w, http.StatusOK, map[string]interface{}{"cart": nil})
		return
	}

	cart, err := h.client.RetrieveCart(r.Context(), cartID)
	if err != nil {
		if domain.ErrorCode(err) == domain.ENOTFOUND {
			// Stale cookie for a purged cart. Drop it and report empty.
			h.cookies.Clear(w, cookie.CartCookieName)
			respondJSON(w, http.StatusOK, map[string]interface{}{"cart": nil})
			return
		}
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"cart": cart})
}

// AddItem handles POST /api/cart/items. Creates the cart on first use.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req addCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	cart, err := h.getOrCreateCart(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	cart, err = h.client.AddLineItem(ctx, cart.ID, commerce.AddLineItemParams{
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"cart": cart})
}

// UpdateItem handles PUT /api/cart/items/{id}. A quantity of zero or less
// removes the line.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	cartID := cookie.Get(r, cookie.CartCookieName)
	if cartID == "" {
		respondError(w, r, domain.ErrCartNotFound)
		return
	}

	var req updateCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	cart, err := h.client.UpdateLineItem(r.Context(), cartID, r.PathValue("id"), req.Quantity)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"cart": cart})
}

// RemoveItem handles DELETE /api/cart/items/{id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cartID := cookie.Get(r, cookie.CartCookieName)
	if cartID == "" {
		respondError(w, r, domain.ErrCartNotFound)
		return
	}

	cart, err := h.client.RemoveLineItem(r.Context(), cartID, r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"cart": cart})
}

// getOrCreateCart resolves the cookie cart, creating a fresh platform cart
// when the cookie is missing, stale, or points at a completed cart.
func (h *CartHandler) getOrCreateCart(w http.ResponseWriter, r *http.Request) (*domain.Cart, error) {
	ctx := r.Context()

	if cartID := cookie.Get(r, cookie.CartCookieName); cartID != "" {
		cart, err := h.client.RetrieveCart(ctx, cartID)
		if err == nil && !cart.Completed() {
			return cart, nil
		}
		if err != nil && domain.ErrorCode(err) != domain.ENOTFOUND {
			return nil, err
		}
	}

	regionID, err := h.regions.ID(ctx)
	if err != nil {
		return nil, err
	}

	cart, err := h.client.CreateCart(ctx, commerce.CreateCartParams{RegionID: regionID})
	if err != nil {
		return nil, err
	}

	h.cookies.Set(w, cookie.CartCookieName, cart.ID, cartCookieMaxAge)
	return cart, nil
}
