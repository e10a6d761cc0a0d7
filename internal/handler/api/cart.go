// Package api serves the storefront's JSON endpoints: a stateless add-to-cart,
// as-you-type search and two diagnostics views of the Shopify connection.
package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dukerupert/plushies/internal/domain"
	"github.com/dukerupert/plushies/internal/handler"
	"github.com/dukerupert/plushies/internal/middleware"
	"github.com/dukerupert/plushies/internal/service"
	"github.com/dukerupert/plushies/internal/telemetry"
)

// CartHandler handles POST /api/cart/add. Every call starts a new cart held
// only in memory; the caller keeps the returned cartId.
type CartHandler struct {
	open     service.SessionOpener
	validate *validator.Validate
}

// NewCartHandler creates a JSON cart handler
func NewCartHandler(open service.SessionOpener) *CartHandler {
	return &CartHandler{
		open:     open,
		validate: newValidator(),
	}
}

type addToCartRequest struct {
	VariantID string `json:"variantId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1,lte=99"`
}

type addToCartResponse struct {
	Success bool         `json:"success"`
	Cart    *domain.Cart `json:"cart"`
	CartID  string       `json:"cartId"`
}

// Add handles POST /api/cart/add
//
// Request:  {"variantId": "gid://shopify/ProductVariant/1", "quantity": 2}
// Response: {"success": true, "cart": {...}, "cartId": "gid://shopify/Cart/..."}
//
// quantity defaults to 1. A missing variantId is a 400 with field errors.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	const op = "api.cart.add"

	var req addToCartRequest
	if err := decodeJSON(r, op, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if err := h.validate.Struct(req); err != nil {
		handler.ValidationErrorResponse(w, r, validationError(op, err))
		return
	}

	store := service.NewMemoryCartIDStore("")
	cart, err := h.open(store).AddToCart(r.Context(), req.VariantID, req.Quantity)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	cartID, _ := store.Load()
	middleware.GetLogger(r.Context()).InfoContext(r.Context(), "api cart created",
		"cart_id", cartID,
		"variant_id", req.VariantID,
		"quantity", req.Quantity,
	)
	if telemetry.Business != nil {
		telemetry.Business.ProductAddToCart.WithLabelValues("api").Inc()
	}

	handler.WriteJSON(w, http.StatusOK, addToCartResponse{
		Success: true,
		Cart:    cart,
		CartID:  cartID,
	})
}
