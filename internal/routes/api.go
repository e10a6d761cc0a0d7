package routes

import (
	"net/http"

	"github.com/dukerupert/plushies/internal/router"
)

// RegisterAPIRoutes registers the JSON endpoints. None of them read the cart
// cookie, so they are exempt from CSRF checks.
func RegisterAPIRoutes(r *router.Router, deps APIDeps) {
	api := r.Group(deps.Middleware...)

	api.Post("/api/cart/add", deps.CartHandler.Add)
	api.Get("/api/search", deps.SearchHandler.ServeHTTP)

	// CORS preflight; the middleware answers before this handler runs
	api.Handle(http.MethodOptions, "/api/{path...}", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	// Diagnostics
	api.Get("/api/test-shopify", deps.DebugHandler.TestShopify)
	api.Get("/api/products-debug", deps.DebugHandler.ProductsDebug)
}
