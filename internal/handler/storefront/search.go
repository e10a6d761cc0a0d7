package storefront

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/dukerupert/plushies/internal/cookie"
	"github.com/dukerupert/plushies/internal/domain"
	"github.com/dukerupert/plushies/internal/handler"
	"github.com/dukerupert/plushies/internal/service"
)

// SearchHandler handles the search results page
type SearchHandler struct {
	productService service.ProductService
	renderer       *handler.Renderer
	cookies        *cookie.Config
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(productService service.ProductService, renderer *handler.Renderer, cookies *cookie.Config) *SearchHandler {
	return &SearchHandler{
		productService: productService,
		renderer:       renderer,
		cookies:        cookies,
	}
}

// ServeHTTP handles GET /search?q=
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))

	data := pageData(w, r, h.cookies)
	data["Query"] = term
	data["MinLength"] = service.MinSearchLength
	data["TooShort"] = utf8.RuneCountInString(term) < service.MinSearchLength
	data["Error"] = ""

	products, err := h.productService.Search(r.Context(), term)
	if err != nil {
		data["Error"] = domain.ErrorMessage(err)
		data["Products"] = []domain.Product{}
		h.renderer.RenderStatus(w, handler.ErrorCodeToHTTPStatus(domain.ErrorCode(err)), "search", data)
		return
	}

	data["Products"] = products
	h.renderer.RenderHTTP(w, "search", data)
}
