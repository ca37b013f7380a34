package routes

import (
	"github.com/strandluxe/storefront/internal/middleware"
	"github.com/strandluxe/storefront/internal/router"
)

// RegisterStorefrontRoutes registers all shopper-facing JSON API routes.
//
// Auth and checkout POSTs sit behind a strict rate limiter; everything
// else shares the browsing limiter applied globally in main.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	// Catalog browsing
	r.Get("/api/products", deps.CatalogHandler.ListProducts)
	r.Get("/api/products/{handle}", deps.CatalogHandler.GetProduct)
	r.Get("/api/collections", deps.CatalogHandler.ListCollections)
	r.Get("/api/collections/{handle}", deps.CatalogHandler.GetCollection)
	r.Get("/api/regions", deps.CatalogHandler.ListRegions)
	r.Get("/api/bundles", deps.BundleHandler.List)

	// Platform cart
	r.Get("/api/cart", deps.CartHandler.Get)
	r.Post("/api/cart/items", deps.CartHandler.AddItem)
	r.Put("/api/cart/items/{id}", deps.CartHandler.UpdateItem)
	r.Delete("/api/cart/items/{id}", deps.CartHandler.RemoveItem)

	// Cart panel
	r.Get("/api/panel", deps.PanelHandler.Get)
	r.Post("/api/panel/items", deps.PanelHandler.AddItem)
	r.Put("/api/panel/items/{id}", deps.PanelHandler.SetQuantity)
	r.Delete("/api/panel/items/{id}", deps.PanelHandler.RemoveItem)
	r.Post("/api/panel/open", deps.PanelHandler.Open)
	r.Post("/api/panel/close", deps.PanelHandler.Close)

	// Checkout flow
	checkoutLimiter := middleware.RateLimit(middleware.StrictRateLimiterConfig())
	r.Get("/api/checkout", deps.CheckoutHandler.Get)
	r.Post("/api/checkout/start", deps.CheckoutHandler.Start)
	r.Post("/api/checkout/address", deps.CheckoutHandler.SubmitAddress)
	r.Post("/api/checkout/shipping", deps.CheckoutHandler.SelectShipping)
	r.Post("/api/checkout/payment", deps.CheckoutHandler.ConfirmPayment, checkoutLimiter)
	r.Post("/api/checkout/payment/refresh", deps.CheckoutHandler.RefreshPayment, checkoutLimiter)
	r.Post("/api/checkout/reset", deps.CheckoutHandler.Reset)

	// Orders
	r.Get("/api/orders/{id}", deps.OrderHandler.Get)

	// Authentication
	authLimiter := middleware.RateLimit(middleware.StrictRateLimiterConfig())
	r.Post("/api/auth/register", deps.AuthHandler.Register, authLimiter)
	r.Post("/api/auth/login", deps.AuthHandler.Login, authLimiter)
	r.Post("/api/auth/logout", deps.AuthHandler.Logout)

	// Routes that need a signed-in customer
	account := r.Group(middleware.RequireCustomer)
	account.Get("/api/auth/me", deps.AuthHandler.Me)
	account.Get("/api/orders", deps.OrderHandler.List)
	account.Post("/api/returns", deps.ReturnHandler.Create)

	r.Get("/api/return-reasons", deps.ReturnHandler.ListReasons)
}
