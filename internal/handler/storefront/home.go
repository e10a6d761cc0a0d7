package storefront

import (
	"net/http"

	"github.com/dukerupert/plushies/internal/cookie"
	"github.com/dukerupert/plushies/internal/handler"
	"github.com/dukerupert/plushies/internal/service"
)

// HomeHandler handles the storefront homepage
type HomeHandler struct {
	productService service.ProductService
	renderer       *handler.Renderer
	cookies        *cookie.Config
}

// NewHomeHandler creates a new home handler
func NewHomeHandler(productService service.ProductService, renderer *handler.Renderer, cookies *cookie.Config) *HomeHandler {
	return &HomeHandler{
		productService: productService,
		renderer:       renderer,
		cookies:        cookies,
	}
}

// ServeHTTP handles GET /
func (h *HomeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	page, err := h.productService.Home(r.Context())
	if err != nil {
		renderError(w, r, h.renderer, err)
		return
	}

	data := pageData(w, r, h.cookies)
	data["Products"] = page.Featured
	data["ShopDescription"] = ""
	if page.Shop != nil {
		data["ShopName"] = page.Shop.Name
		data["ShopDescription"] = page.Shop.Description
		data["MetaDescription"] = page.Shop.Description
	}

	h.renderer.RenderHTTP(w, "home", data)
}
