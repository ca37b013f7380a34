package storefront

import (
	"net/http"

	"github.com/strandluxe/storefront/internal/cart"
	"github.com/strandluxe/storefront/internal/commerce"
	"github.com/strandluxe/storefront/internal/domain"
	"github.com/strandluxe/storefront/internal/middleware"
	"github.com/strandluxe/storefront/internal/telemetry"
)

// PanelHandler serves the in-memory slide-out cart panel. The panel is the
// instant-feedback mini cart; it never talks to the platform except to look
// up the product being added.
type PanelHandler struct {
	carts   *cart.Registry
	client  commerce.Client
	regions *RegionCache
	metrics *telemetry.BusinessMetrics
}

// NewPanelHandler creates a new panel handler
func NewPanelHandler(carts *cart.Registry, client commerce.Client, regions *RegionCache, metrics *telemetry.BusinessMetrics) *PanelHandler {
	return &PanelHandler{
		carts:   carts,
		client:  client,
		regions: regions,
		metrics: metrics,
	}
}

type addPanelItemRequest struct {
	ProductHandle string `json:"product_handle" validate:"required"`
	VariantID     string `json:"variant_id"`
}

type setPanelQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// panelState is the JSON shape of the panel for every panel response.
type panelState struct {
	Open       bool        `json:"open"`
	Items      []cart.Item `json:"items"`
	Count      int         `json:"count"`
	TotalCents int64       `json:"total_cents"`
}

func snapshotPanel(store *cart.Store) panelState {
	return panelState{
		Open:       store.IsOpen(),
		Items:      store.Items(),
		Count:      store.Count(),
		TotalCents: store.TotalCents(),
	}
}

func (h *PanelHandler) store(r *http.Request) *cart.Store {
	return h.carts.For(middleware.GetSessionID(r.Context()))
}

// Get handles GET /api/panel
func (h *PanelHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, snapshotPanel(h.store(r)))
}

// AddItem handles POST /api/panel/items. The product is fetched fresh so
// the panel always carries current pricing. Omitting variant_id picks the
// product's first variant.
func (h *PanelHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req addPanelItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	regionID, err := h.regions.ID(ctx)
	if err != nil {
		respondError(w, r, err)
		return
	}

	product, err := h.client.RetrieveProductByHandle(ctx, req.ProductHandle, regionID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if len(product.Variants) == 0 {
		respondError(w, r, domain.Invalid("PanelHandler.AddItem", "Product has no purchasable variants"))
		return
	}

	chosen := product.Variants[0]
	if req.VariantID != "" {
		found := false
		for _, v := range product.Variants {
			if v.ID == req.VariantID {
				chosen = v
				found = true
				break
			}
		}
		if !found {
			respondError(w, r, domain.Invalid("PanelHandler.AddItem", "Variant does not belong to this product"))
			return
		}
	}

	store := h.store(r)
	store.Add(*product, chosen)

	if h.metrics != nil {
		h.metrics.CartItemsAdd.Inc()
	}

	respondJSON(w, http.StatusOK, snapshotPanel(store))
}

// SetQuantity handles PUT /api/panel/items/{id}. Zero or less removes the
// line.
func (h *PanelHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req setPanelQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	store := h.store(r)
	store.SetQuantity(r.PathValue("id"), req.Quantity)

	respondJSON(w, http.StatusOK, snapshotPanel(store))
}

// RemoveItem handles DELETE /api/panel/items/{id}
func (h *PanelHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	store := h.store(r)
	store.Remove(r.PathValue("id"))

	respondJSON(w, http.StatusOK, snapshotPanel(store))
}

// Open handles POST /api/panel/open
func (h *PanelHandler) Open(w http.ResponseWriter, r *http.Request) {
	store := h.store(r)
	store.Open()

	respondJSON(w, http.StatusOK, snapshotPanel(store))
}

// Close handles POST /api/panel/close
func (h *PanelHandler) Close(w http.ResponseWriter, r *http.Request) {
	store := h.store(r)
	store.Close()

	respondJSON(w, http.StatusOK, snapshotPanel(store))
}
