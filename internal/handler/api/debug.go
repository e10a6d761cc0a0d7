package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dukerupert/plushies/internal/domain"
	"github.com/dukerupert/plushies/internal/handler"
	"github.com/dukerupert/plushies/internal/middleware"
	"github.com/dukerupert/plushies/internal/shopify"
)

// Gateway is the part of the Shopify client the diagnostics endpoints use.
type Gateway interface {
	Status() shopify.Status
	Shop(ctx context.Context) (*domain.Shop, error)
	GetProducts(ctx context.Context, limit int) ([]domain.Product, error)
	RawProducts(ctx context.Context, limit int) (json.RawMessage, error)
}

var _ Gateway = (*shopify.Client)(nil)

const (
	sampleProducts = 3
	debugProducts  = 5
)

// DebugHandler exposes connection diagnostics. Neither endpoint returns
// the access token.
type DebugHandler struct {
	gateway Gateway
}

// NewDebugHandler creates a diagnostics handler
func NewDebugHandler(gateway Gateway) *DebugHandler {
	return &DebugHandler{gateway: gateway}
}

type testShopifyResponse struct {
	Success  bool             `json:"success"`
	Config   shopify.Status   `json:"config"`
	Shop     *domain.Shop     `json:"shop,omitempty"`
	Products []domain.Product `json:"products"`
	Error    *errorSummary    `json:"error,omitempty"`
}

type errorSummary struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// TestShopify handles GET /api/test-shopify
//
// Reports which settings are present, then fetches the shop and a few
// products. A failing call is reported in the body with the status its
// error code maps to.
func (h *DebugHandler) TestShopify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := testShopifyResponse{
		Config:   h.gateway.Status(),
		Products: []domain.Product{},
	}

	shop, err := h.gateway.Shop(ctx)
	if err == nil {
		resp.Shop = shop
		var products []domain.Product
		products, err = h.gateway.GetProducts(ctx, sampleProducts)
		if err == nil {
			resp.Products = products
		}
	}

	if err != nil {
		code := domain.ErrorCode(err)
		middleware.GetLogger(ctx).WarnContext(ctx, "shopify connection test failed", "error", err, "code", code)
		resp.Error = &errorSummary{Code: code, Message: domain.ErrorMessage(err)}
		handler.WriteJSON(w, handler.ErrorCodeToHTTPStatus(code), resp)
		return
	}

	resp.Success = true
	handler.WriteJSON(w, http.StatusOK, resp)
}

type productsDebugResponse struct {
	Success    bool            `json:"success"`
	DurationMS int64           `json:"durationMs"`
	Data       json.RawMessage `json:"data,omitempty"`
	Error      *errorSummary   `json:"error,omitempty"`
}

// ProductsDebug handles GET /api/products-debug by echoing the raw,
// uncached product listing response along with how long it took.
func (h *DebugHandler) ProductsDebug(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	start := time.Now()
	data, err := h.gateway.RawProducts(ctx, debugProducts)
	elapsed := time.Since(start)

	if err != nil {
		code := domain.ErrorCode(err)
		middleware.GetLogger(ctx).WarnContext(ctx, "products debug failed", "error", err, "code", code)
		handler.WriteJSON(w, handler.ErrorCodeToHTTPStatus(code), productsDebugResponse{
			DurationMS: elapsed.Milliseconds(),
			Error:      &errorSummary{Code: code, Message: domain.ErrorMessage(err)},
		})
		return
	}

	handler.WriteJSON(w, http.StatusOK, productsDebugResponse{
		Success:    true,
		DurationMS: elapsed.Milliseconds(),
		Data:       data,
	})
}
