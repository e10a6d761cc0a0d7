package storefront

import (
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/dukerupert/plushies/internal/cookie"
	"github.com/dukerupert/plushies/internal/domain"
	"github.com/dukerupert/plushies/internal/handler"
	"github.com/dukerupert/plushies/internal/middleware"
)

// BaseTemplateData returns common data for all templates
func BaseTemplateData(r *http.Request) map[string]interface{} {
	return map[string]interface{}{
		"Year":            time.Now().Year(),
		"CSRFToken":       middleware.GetCSRFToken(r.Context()),
		"Query":           "",
		"Flash":           "",
		"ShopName":        "",
		"MetaDescription": "",
	}
}

// pageData is BaseTemplateData plus any pending flash message.
func pageData(w http.ResponseWriter, r *http.Request, cookies *cookie.Config) map[string]interface{} {
	data := BaseTemplateData(r)
	if cookies != nil {
		data["Flash"] = cookies.PopFlash(w, r)
	}
	return data
}

// renderError renders the error page with the status matching err.
func renderError(w http.ResponseWriter, r *http.Request, renderer *handler.Renderer, err error) {
	code := domain.ErrorCode(err)
	status := handler.ErrorCodeToHTTPStatus(code)

	logger := middleware.GetLogger(r.Context())
	logger.ErrorContext(r.Context(), "page failed", "error", err, "code", code, "path", r.URL.Path)

	data := BaseTemplateData(r)
	data["Error"] = domain.ErrorMessage(err)
	renderer.RenderStatus(w, status, "error", data)
}

// renderNotFound renders the not-found page with a 404.
func renderNotFound(w http.ResponseWriter, r *http.Request, renderer *handler.Renderer, resource string) {
	data := BaseTemplateData(r)
	data["Resource"] = resource
	renderer.RenderStatus(w, http.StatusNotFound, "not_found", data)
}

// parseQuantity reads a positive quantity, defaulting to 1 when absent.
func parseQuantity(raw string) (int, bool) {
	if raw == "" {
		return 1, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// clampQuantity limits a picker quantity to 1..handler.MaxQuantity.
func clampQuantity(n int) int {
	switch {
	case n < 1:
		return 1
	case n > handler.MaxQuantity:
		return handler.MaxQuantity
	default:
		return n
	}
}

// safeHTML marks merchant-authored product descriptions as trusted markup.
func safeHTML(s string) template.HTML {
	return template.HTML(s)
}

// NotFound renders the not-found page for unmatched routes.
func NotFound(renderer *handler.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderNotFound(w, r, renderer, "")
	}
}
