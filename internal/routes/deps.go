// Package routes wires handlers onto the router. Registration is split by
// concern so main.go reads as a table of contents.
package routes

import (
	"github.com/strandluxe/storefront/internal/handler/storefront"
)

// StorefrontDeps contains the handlers behind the shopper-facing JSON API.
type StorefrontDeps struct {
	// Catalog browsing: products, collections, regions
	CatalogHandler *storefront.CatalogHandler

	// Merchandising bundles composed from the live catalog
	BundleHandler *storefront.BundleHandler

	// Platform-held cart
	CartHandler *storefront.CartHandler

	// In-memory slide-out cart panel
	PanelHandler *storefront.PanelHandler

	// Staged checkout flow
	CheckoutHandler *storefront.CheckoutHandler

	// Order history and confirmation lookup
	OrderHandler *storefront.OrderHandler

	// Customer registration and sign-in
	AuthHandler *storefront.AuthHandler

	// Return reasons and return requests
	ReturnHandler *storefront.ReturnHandler
}
