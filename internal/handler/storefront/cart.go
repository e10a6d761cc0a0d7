package storefront

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dukerupert/plushies/internal/cookie"
	"github.com/dukerupert/plushies/internal/domain"
	"github.com/dukerupert/plushies/internal/handler"
	"github.com/dukerupert/plushies/internal/middleware"
	"github.com/dukerupert/plushies/internal/service"
	"github.com/dukerupert/plushies/internal/telemetry"
)

// CartHandler handles all cart-related storefront routes. Every form post
// redirects (303) and reports its outcome through a flash message.
type CartHandler struct {
	open     service.SessionOpener
	cookies  *cookie.Config
	renderer *handler.Renderer
}

// NewCartHandler creates a new cart handler
func NewCartHandler(open service.SessionOpener, cookies *cookie.Config, renderer *handler.Renderer) *CartHandler {
	return &CartHandler{
		open:     open,
		cookies:  cookies,
		renderer: renderer,
	}
}

// View handles GET /cart
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	session := h.open(h.cookies.CartStore(w, r))

	cart, err := session.Resume(r.Context())
	if err != nil {
		renderError(w, r, h.renderer, err)
		return
	}

	data := pageData(w, r, h.cookies)
	data["Cart"] = cart
	h.renderer.RenderHTTP(w, "cart", data)
}

// Add handles POST /cart/add
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		handler.BadRequestResponse(w, r, "Invalid form data")
		return
	}

	variantID := r.FormValue("variant_id")
	back := "/products"
	if handle := strings.TrimSpace(r.FormValue("handle")); handle != "" {
		back = "/products/" + handle
	}

	quantity, ok := parseQuantity(r.FormValue("quantity"))
	if !ok || quantity < 1 || quantity > handler.MaxQuantity {
		h.redirectWithFlash(w, r, back, "Choose a quantity between 1 and 10")
		return
	}

	session := h.open(h.cookies.CartStore(w, r))
	if _, err := session.AddToCart(r.Context(), variantID, quantity); err != nil {
		h.logFailure(r, "add", err)
		h.redirectWithFlash(w, r, back, domain.ErrorMessage(err))
		return
	}

	if telemetry.Business != nil {
		telemetry.Business.ProductAddToCart.WithLabelValues("page").Inc()
	}
	h.redirectWithFlash(w, r, "/cart", "Added to cart")
}

// Update handles POST /cart/update. A quantity below 1 removes the line.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		handler.BadRequestResponse(w, r, "Invalid form data")
		return
	}

	lineID := r.FormValue("line_id")
	quantity, ok := parseQuantity(r.FormValue("quantity"))
	if !ok {
		h.redirectWithFlash(w, r, "/cart", "Invalid quantity")
		return
	}

	session := h.open(h.cookies.CartStore(w, r))

	var err error
	if quantity < 1 {
		_, err = session.RemoveFromCart(r.Context(), lineID)
	} else {
		_, err = session.UpdateCartItem(r.Context(), lineID, quantity)
	}
	if err != nil {
		h.logFailure(r, "update", err)
		h.redirectWithFlash(w, r, "/cart", rolledBackMessage(session.State(), lineID, err))
		return
	}

	h.redirectWithFlash(w, r, "/cart", "Cart updated")
}

// Remove handles POST /cart/remove
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		handler.BadRequestResponse(w, r, "Invalid form data")
		return
	}

	session := h.open(h.cookies.CartStore(w, r))
	if _, err := session.RemoveFromCart(r.Context(), r.FormValue("line_id")); err != nil {
		h.logFailure(r, "remove", err)
		h.redirectWithFlash(w, r, "/cart", domain.ErrorMessage(err))
		return
	}

	h.redirectWithFlash(w, r, "/cart", "Item removed")
}

// Clear handles POST /cart/clear
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	session := h.open(h.cookies.CartStore(w, r))
	if err := session.ClearCart(r.Context()); err != nil {
		h.logFailure(r, "clear", err)
		h.redirectWithFlash(w, r, "/cart", domain.ErrorMessage(err))
		return
	}

	h.redirectWithFlash(w, r, "/cart", "Cart cleared")
}

// Checkout handles GET /checkout by handing the visitor to the platform's
// hosted checkout.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	session := h.open(h.cookies.CartStore(w, r))

	cart, err := session.Resume(r.Context())
	if err != nil {
		renderError(w, r, h.renderer, err)
		return
	}
	if cart.IsEmpty() || cart.CheckoutURL == "" {
		h.redirectWithFlash(w, r, "/cart", "Your cart is empty")
		return
	}

	if telemetry.Business != nil {
		telemetry.Business.CheckoutRedirects.Inc()
	}
	http.Redirect(w, r, cart.CheckoutURL, http.StatusSeeOther)
}

// rolledBackMessage names the quantity the line went back to when an
// optimistic edit was rolled back.
func rolledBackMessage(st service.CartState, lineID string, err error) string {
	message := domain.ErrorMessage(err)
	if edit, ok := st.Edits[lineID]; ok && edit.Phase() == service.EditRolledBack {
		return fmt.Sprintf("%s. Quantity kept at %d", message, st.Quantity(lineID))
	}
	return message
}

func (h *CartHandler) redirectWithFlash(w http.ResponseWriter, r *http.Request, to, message string) {
	if message != "" {
		h.cookies.SetFlash(w, message)
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func (h *CartHandler) logFailure(r *http.Request, action string, err error) {
	middleware.GetLogger(r.Context()).WarnContext(r.Context(), "cart action failed",
		"action", action,
		"code", domain.ErrorCode(err),
		"error", err,
	)
}
