package storefront

import (
	"net/http"

	"github.com/strandluxe/storefront/internal/bundle"
	"github.com/strandluxe/storefront/internal/commerce"
	"github.com/strandluxe/storefront/internal/telemetry"
)

// bundleCatalogLimit bounds how much of the catalog bundle composition
// scans. The boutique catalog is far smaller than this.
const bundleCatalogLimit = 100

// BundleHandler composes merchandising bundles from the live catalog.
type BundleHandler struct {
	client  commerce.Client
	regions *RegionCache
	defs    []bundle.Definition
	metrics *telemetry.BusinessMetrics
}

// NewBundleHandler creates a new bundle handler
func NewBundleHandler(client commerce.Client, regions *RegionCache, defs []bundle.Definition, metrics *telemetry.BusinessMetrics) *BundleHandler {
	if defs == nil {
		defs = bundle.DefaultDefinitions
	}
	return &BundleHandler{
		client:  client,
		regions: regions,
		defs:    defs,
		metrics: metrics,
	}
}

// List handles GET /api/bundles. Bundles are composed on demand so they
// always reflect current pricing and availability.
func (h *BundleHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	regionID, err := h.regions.ID(ctx)
	if err != nil {
		respondError(w, r, err)
		return
	}

	products, _, err := h.client.ListProducts(ctx, commerce.ListProductsParams{
		RegionID: regionID,
		Limit:    bundleCatalogLimit,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	bundles := bundle.Compose(h.defs, products)

	if h.metrics != nil {
		h.metrics.BundleViews.Inc()
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"bundles": bundles})
}
