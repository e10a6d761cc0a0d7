package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/dukerupert/plushies/internal/domain"
	"github.com/dukerupert/plushies/internal/handler"
)

// ProductSearcher runs a search that a newer search with the same key
// supersedes.
type ProductSearcher interface {
	Search(ctx context.Context, key, term string) ([]domain.Product, error)
}

// SearchHandler handles GET /api/search
type SearchHandler struct {
	searcher ProductSearcher
}

// NewSearchHandler creates a JSON search handler
func NewSearchHandler(searcher ProductSearcher) *SearchHandler {
	return &SearchHandler{searcher: searcher}
}

type searchResponse struct {
	Products []domain.Product `json:"products"`
	Query    string           `json:"query"`
	Count    int              `json:"count"`
}

// ServeHTTP handles GET /api/search?q=
//
// Searches are keyed by visitor, so a visitor typing quickly only receives
// results for the latest term; earlier requests answer 409.
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))

	var key string
	if domain.HasVisitor(r.Context()) {
		key = domain.VisitorFromContext(r.Context()).String()
	}

	products, err := h.searcher.Search(r.Context(), key, term)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}

	handler.WriteJSON(w, http.StatusOK, searchResponse{
		Products: products,
		Query:    term,
		Count:    len(products),
	})
}
