package routes

import (
	"github.com/dukerupert/plushies/internal/router"
)

// RegisterStorefrontRoutes registers the customer-facing HTML pages.
// Cart form posts are CSRF-protected by the global middleware chain.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	// Home page
	r.Get("/{$}", deps.HomeHandler.ServeHTTP)

	// Product browsing
	r.Get("/products", deps.ProductListHandler.ServeHTTP)
	r.Get("/products/{handle}", deps.ProductDetailHandler.ServeHTTP)
	r.Get("/search", deps.SearchHandler.ServeHTTP)

	// Shopping cart
	r.Get("/cart", deps.CartHandler.View)
	r.Post("/cart/add", deps.CartHandler.Add)
	r.Post("/cart/update", deps.CartHandler.Update)
	r.Post("/cart/remove", deps.CartHandler.Remove)
	r.Post("/cart/clear", deps.CartHandler.Clear)

	// Checkout happens on the platform
	r.Get("/checkout", deps.CartHandler.Checkout)
}
