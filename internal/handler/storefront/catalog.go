package storefront

import (
	"net/http"

	"github.com/strandluxe/storefront/internal/commerce"
	"github.com/strandluxe/storefront/internal/telemetry"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// CatalogHandler serves the read-only product catalog: products,
// collections, and regions.
type CatalogHandler struct {
	client  commerce.Client
	regions *RegionCache
	metrics *telemetry.BusinessMetrics
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(client commerce.Client, regions *RegionCache, metrics *telemetry.BusinessMetrics) *CatalogHandler {
	return &CatalogHandler{
		client:  client,
		regions: regions,
		metrics: metrics,
	}
}

// ListProducts handles GET /api/products
//
// Query parameters:
//   - q: free-text search over titles
//   - collection: collection handle to filter by
//   - limit, offset: pagination
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	regionID, err := h.regions.ID(ctx)
	if err != nil {
		respondError(w, r, err)
		return
	}

	limit := queryInt(r, "limit", defaultPageSize)
	if limit > maxPageSize {
		limit = maxPageSize
	}

	params := commerce.ListProductsParams{
		RegionID: regionID,
		Query:    r.URL.Query().Get("q"),
		Limit:    limit,
		Offset:   queryInt(r, "offset", 0),
	}

	filterType := "none"
	if params.Query != "" {
		filterType = "query"
	}

	if handle := r.URL.Query().Get("collection"); handle != "" {
		collection, err := h.client.RetrieveCollectionByHandle(ctx, handle)
		if err != nil {
			respondError(w, r, err)
			return
		}
		params.CollectionID = collection.ID
		filterType = "collection"
	}

	products, count, err := h.client.ListProducts(ctx, params)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ProductSearches.WithLabelValues(filterType).Inc()
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"products": products,
		"count":    count,
		"limit":    params.Limit,
		"offset":   params.Offset,
	})
}

// GetProduct handles GET /api/products/{handle}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	handle := r.PathValue("handle")

	regionID, err := h.regions.ID(ctx)
	if err != nil {
		respondError(w, r, err)
		return
	}

	product, err := h.client.RetrieveProductByHandle(ctx, handle, regionID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ProductViews.WithLabelValues(product.Handle).Inc()
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"product": product})
}

// ListCollections handles GET /api/collections
func (h *CatalogHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := h.client.ListCollections(r.Context(), commerce.ListParams{
		Limit:  queryInt(r, "limit", defaultPageSize),
		Offset: queryInt(r, "offset", 0),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"collections": collections})
}

// GetCollection handles GET /api/collections/{handle}. The response pairs
// the collection with its products so the collection page needs one call.
func (h *CatalogHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	collection, err := h.client.RetrieveCollectionByHandle(ctx, r.PathValue("handle"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	regionID, err := h.regions.ID(ctx)
	if err != nil {
		respondError(w, r, err)
		return
	}

	limit := queryInt(r, "limit", defaultPageSize)
	if limit > maxPageSize {
		limit = maxPageSize
	}

	products, count, err := h.client.ListProducts(ctx, commerce.ListProductsParams{
		RegionID:     regionID,
		CollectionID: collection.ID,
		Limit:        limit,
		Offset:       queryInt(r, "offset", 0),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"collection": collection,
		"products":   products,
		"count":      count,
	})
}

// ListRegions handles GET /api/regions
func (h *CatalogHandler) ListRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := h.client.ListRegions(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"regions": regions})
}
