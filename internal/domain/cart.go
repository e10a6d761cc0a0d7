package domain

// =============================================================================
// CART DOMAIN TYPES
// =============================================================================

// Cart is the platform-owned cart snapshot. Every mutation returns a complete
// Cart which replaces the previous one; the storefront never patches lines
// locally.
type Cart struct {
	ID            string     `json:"id"`
	CheckoutURL   string     `json:"checkoutUrl"`
	TotalQuantity int        `json:"totalQuantity"`
	Lines         []CartLine `json:"lines"`
	Cost          CartCost   `json:"cost"`
}

type CartCost struct {
	Subtotal Money  `json:"subtotalAmount"`
	Total    Money  `json:"totalAmount"`
	Tax      *Money `json:"totalTaxAmount,omitempty"`
}

// CartLine is one entry in the cart. Merchandise is a denormalised snapshot
// of the variant taken when the cart was last returned.
type CartLine struct {
	ID          string      `json:"id"`
	Quantity    int         `json:"quantity"`
	Merchandise Merchandise `json:"merchandise"`
}

type Merchandise struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	AvailableForSale bool             `json:"availableForSale"`
	Price            Money            `json:"price"`
	SelectedOptions  []SelectedOption `json:"selectedOptions,omitempty"`
	Image            *Image           `json:"image,omitempty"`
	Product          LineProduct      `json:"product"`
}

type LineProduct struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Handle string `json:"handle"`
}

// UserError is a rejection reported inside a successful cart mutation.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Lines) == 0
}

// Line returns the line with the given ID, or nil.
func (c *Cart) Line(id string) *CartLine {
	if c == nil {
		return nil
	}
	for i := range c.Lines {
		if c.Lines[i].ID == id {
			return &c.Lines[i]
		}
	}
	return nil
}

// LineTotal returns quantity times unit price.
func (l *CartLine) LineTotal() Money {
	return l.Merchandise.Price.Times(l.Quantity)
}
