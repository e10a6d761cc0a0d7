package shopify

import (
	"context"
	"encoding/json"

	"github.com/dukerupert/plushies/internal/domain"
)

// LineInput adds a quantity of one variant to a cart.
type LineInput struct {
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

// LineUpdate sets the quantity of an existing cart line.
type LineUpdate struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type merchandiseNode struct {
	ID               string                  `json:"id"`
	Title            string                  `json:"title"`
	AvailableForSale bool                    `json:"availableForSale"`
	Price            domain.Money            `json:"price"`
	SelectedOptions  []domain.SelectedOption `json:"selectedOptions"`
	Image            *domain.Image           `json:"image"`
	Product          struct {
		ID     string                   `json:"id"`
		Title  string                   `json:"title"`
		Handle string                   `json:"handle"`
		Images Connection[domain.Image] `json:"images"`
	} `json:"product"`
}

type cartLineNode struct {
	ID          string          `json:"id"`
	Quantity    int             `json:"quantity"`
	Merchandise merchandiseNode `json:"merchandise"`
}

type cartNode struct {
	ID            string                   `json:"id"`
	CheckoutURL   string                   `json:"checkoutUrl"`
	TotalQuantity int                      `json:"totalQuantity"`
	Lines         Connection[cartLineNode] `json:"lines"`
	Cost          domain.CartCost          `json:"cost"`
}

func (n *cartNode) toDomain() *domain.Cart {
	cart := &domain.Cart{
		ID:            n.ID,
		CheckoutURL:   n.CheckoutURL,
		TotalQuantity: n.TotalQuantity,
		Lines:         make([]domain.CartLine, 0, len(n.Lines.Edges)),
		Cost:          n.Cost,
	}

	for _, line := range n.Lines.Nodes() {
		m := line.Merchandise
		image := m.Image
		// Variants without their own image fall back to the product's first.
		if image == nil {
			if imgs := m.Product.Images.Nodes(); len(imgs) > 0 {
				image = &imgs[0]
			}
		}
		cart.Lines = append(cart.Lines, domain.CartLine{
			ID:       line.ID,
			Quantity: line.Quantity,
			Merchandise: domain.Merchandise{
				ID:               m.ID,
				Title:            m.Title,
				AvailableForSale: m.AvailableForSale,
				Price:            m.Price,
				SelectedOptions:  m.SelectedOptions,
				Image:            image,
				Product: domain.LineProduct{
					ID:     m.Product.ID,
					Title:  m.Product.Title,
					Handle: m.Product.Handle,
				},
			},
		})
	}
	return cart
}

// cartPayload is the common shape of every cart mutation result.
type cartPayload struct {
	Cart       *cartNode          `json:"cart"`
	UserErrors []domain.UserError `json:"userErrors"`
}

// result converts a mutation payload, turning user errors into a cart error
// carrying the first message.
func (p *cartPayload) result(op string) (*domain.Cart, error) {
	if len(p.UserErrors) > 0 {
		msg := p.UserErrors[0].Message
		if msg == "" {
			msg = "Cart update was rejected"
		}
		return nil, domain.CartFailure(op, msg)
	}
	if p.Cart == nil {
		return nil, domain.Gateway(nil, op, "Shopify returned no cart")
	}
	return p.Cart.toDomain(), nil
}

// mutateCart runs one cart mutation whose payload sits under field.
func (c *Client) mutateCart(ctx context.Context, name, query, field string, vars map[string]any) (*domain.Cart, error) {
	var data map[string]json.RawMessage
	if err := c.Execute(ctx, Request{Name: name, Query: query, Variables: vars}, &data); err != nil {
		return nil, err
	}

	var payload cartPayload
	if raw, ok := data[field]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, domain.Gateway(err, "shopify."+name, "Unexpected response from Shopify")
		}
	}
	return payload.result("shopify." + name)
}

// CreateCart creates a new cart, optionally seeded with lines.
func (c *Client) CreateCart(ctx context.Context, lines ...LineInput) (*domain.Cart, error) {
	vars := map[string]any{}
	if len(lines) > 0 {
		vars["lines"] = lines
	}
	return c.mutateCart(ctx, "cartCreate", cartCreateMutation, "cartCreate", vars)
}

// GetCart fetches a cart by ID. An ID the platform does not know (expired or
// completed carts) is reported as domain.ENOTFOUND.
func (c *Client) GetCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	const op = "shopify.getCart"

	var data struct {
		Cart *cartNode `json:"cart"`
	}
	err := c.Execute(ctx, Request{
		Name:      "getCart",
		Query:     getCartQuery,
		Variables: map[string]any{"cartId": cartID},
	}, &data)
	if err != nil {
		return nil, err
	}
	if data.Cart == nil {
		return nil, domain.NotFound(op, "cart", cartID)
	}
	return data.Cart.toDomain(), nil
}

// AddCartLines adds lines to an existing cart.
func (c *Client) AddCartLines(ctx context.Context, cartID string, lines []LineInput) (*domain.Cart, error) {
	return c.mutateCart(ctx, "cartLinesAdd", cartLinesAddMutation, "cartLinesAdd",
		map[string]any{"cartId": cartID, "lines": lines})
}

// UpdateCartLines sets quantities on existing lines.
func (c *Client) UpdateCartLines(ctx context.Context, cartID string, lines []LineUpdate) (*domain.Cart, error) {
	return c.mutateCart(ctx, "cartLinesUpdate", cartLinesUpdateMutation, "cartLinesUpdate",
		map[string]any{"cartId": cartID, "lines": lines})
}

// RemoveCartLines removes lines by ID.
func (c *Client) RemoveCartLines(ctx context.Context, cartID string, lineIDs []string) (*domain.Cart, error) {
	return c.mutateCart(ctx, "cartLinesRemove", cartLinesRemoveMutation, "cartLinesRemove",
		map[string]any{"cartId": cartID, "lineIds": lineIDs})
}
