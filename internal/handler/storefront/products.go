package storefront

import (
	"net/http"
	"strings"

	"github.com/dukerupert/plushies/internal/cookie"
	"github.com/dukerupert/plushies/internal/domain"
	"github.com/dukerupert/plushies/internal/handler"
	"github.com/dukerupert/plushies/internal/middleware"
	"github.com/dukerupert/plushies/internal/service"
	"github.com/dukerupert/plushies/internal/shopify"
	"github.com/dukerupert/plushies/internal/telemetry"
)

// ProductListHandler handles the product listing page
type ProductListHandler struct {
	productService service.ProductService
	renderer       *handler.Renderer
	cookies        *cookie.Config
}

// NewProductListHandler creates a new product list handler
func NewProductListHandler(productService service.ProductService, renderer *handler.Renderer, cookies *cookie.Config) *ProductListHandler {
	return &ProductListHandler{
		productService: productService,
		renderer:       renderer,
		cookies:        cookies,
	}
}

// ServeHTTP handles GET /products
func (h *ProductListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := pageData(w, r, h.cookies)

	products, err := h.productService.List(ctx, shopify.DefaultProductsLimit)
	if err != nil {
		code := domain.ErrorCode(err)
		middleware.GetLogger(ctx).ErrorContext(ctx, "failed to list products", "error", err, "code", code)

		data["Error"] = domain.ErrorMessage(err)
		data["Products"] = []domain.Product{}
		h.renderer.RenderStatus(w, handler.ErrorCodeToHTTPStatus(code), "products", data)
		return
	}

	data["Error"] = ""
	data["Products"] = products
	h.renderer.RenderHTTP(w, "products", data)
}

// ProductDetailHandler handles the product detail page
type ProductDetailHandler struct {
	productService service.ProductService
	renderer       *handler.Renderer
	cookies        *cookie.Config
}

// NewProductDetailHandler creates a new product detail handler
func NewProductDetailHandler(productService service.ProductService, renderer *handler.Renderer, cookies *cookie.Config) *ProductDetailHandler {
	return &ProductDetailHandler{
		productService: productService,
		renderer:       renderer,
		cookies:        cookies,
	}
}

// ServeHTTP handles GET /products/{handle}
//
// Query parameters named after product options (e.g. ?Size=Large) select a
// variant; a selection that matches no available variant keeps the default.
// ?quantity= preselects the quantity picker, clamped to 1..10.
func (h *ProductDetailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	handle := strings.TrimSpace(r.PathValue("handle"))

	if handle == "" {
		renderNotFound(w, r, h.renderer, "Product")
		return
	}

	product, err := h.productService.Get(ctx, handle)
	if err != nil {
		renderError(w, r, h.renderer, err)
		return
	}
	if product == nil {
		renderNotFound(w, r, h.renderer, "Product")
		return
	}

	if telemetry.Business != nil {
		telemetry.Business.ProductViews.WithLabelValues(product.Handle).Inc()
	}

	query := r.URL.Query()
	variant := product.DefaultVariant()
	if product.HasVariantChoice() {
		selected := make(map[string]string, len(product.Options))
		for _, opt := range product.Options {
			if v := query.Get(opt.Name); v != "" {
				selected[opt.Name] = v
			}
		}
		if len(selected) > 0 {
			if match := product.MatchVariant(selected); match != nil {
				variant = match
			}
		}
	}

	quantity, _ := parseQuantity(query.Get("quantity"))

	data := pageData(w, r, h.cookies)
	data["Product"] = product
	data["Variant"] = variant
	data["Quantity"] = clampQuantity(quantity)
	data["DescriptionHTML"] = safeHTML(product.DescriptionHTML)
	data["MetaDescription"] = product.SEO.Description

	h.renderer.RenderHTTP(w, "product", data)
}
