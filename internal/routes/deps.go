package routes

import (
	"net/http"

	"github.com/dukerupert/plushies/internal/handler/api"
	"github.com/dukerupert/plushies/internal/handler/storefront"
	"github.com/dukerupert/plushies/internal/router"
)

// StorefrontDeps contains dependencies for storefront routes
type StorefrontDeps struct {
	// Home
	HomeHandler http.Handler

	// Products
	ProductListHandler   http.Handler
	ProductDetailHandler http.Handler

	// Search results page
	SearchHandler http.Handler

	// Cart and hand-off to hosted checkout
	CartHandler *storefront.CartHandler
}

// APIDeps contains dependencies for the JSON API
type APIDeps struct {
	CartHandler   *api.CartHandler
	SearchHandler http.Handler
	DebugHandler  *api.DebugHandler

	// Middleware applied to every API route, e.g. CORS and a strict rate limit
	Middleware []router.Middleware
}
