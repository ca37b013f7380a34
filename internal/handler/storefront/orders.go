package storefront

import (
	"net/http"

	"github.com/strandluxe/storefront/internal/commerce"
	"github.com/strandluxe/storefront/internal/middleware"
)

// OrderHandler serves order history and the order confirmation lookup.
type OrderHandler struct {
	client commerce.Client
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(client commerce.Client) *OrderHandler {
	return &OrderHandler{client: client}
}

// List handles GET /api/orders. Requires a signed-in customer; the
// platform scopes the listing to the token's owner.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetCustomerToken(r.Context())

	orders, err := h.client.ListOrders(r.Context(), token, commerce.ListParams{
		Limit:  queryInt(r, "limit", defaultPageSize),
		Offset: queryInt(r, "offset", 0),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

// Get handles GET /api/orders/{id}. Open to guests so the confirmation
// page works right after a guest checkout; order IDs are unguessable.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.client.RetrieveOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"order": order})
}
