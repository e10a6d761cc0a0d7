package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/plushies/internal/domain"
	"github.com/dukerupert/plushies/internal/shopify"
)

// =============================================================================
// FAKE COMMERCE PLATFORM
// =============================================================================

// fakePlatform is an in-memory stand-in for the Storefront API. It keeps
// real cart state so tests can assert on totals, and counts calls per
// operation.
type fakePlatform struct {
	mu     sync.Mutex
	carts  map[string]*domain.Cart
	nextID int
	calls  map[string]int

	// errs makes the next call of an operation fail.
	errs map[string]error

	// onMutate runs inside every line mutation before it is applied.
	onMutate func(op string)

	// catalog
	products []domain.Product
	shop     *domain.Shop
	shopErr  error
	searches []string
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		carts: map[string]*domain.Cart{},
		calls: map[string]int{},
		errs:  map[string]error{},
	}
}

func (f *fakePlatform) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakePlatform) failNext(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[op] = err
}

// begin records a call and returns any injected error.
func (f *fakePlatform) begin(op string) error {
	f.calls[op]++
	if err, ok := f.errs[op]; ok {
		delete(f.errs, op)
		return err
	}
	return nil
}

func usd(amount string) domain.Money {
	return domain.Money{Amount: decimal.RequireFromString(amount), CurrencyCode: "USD"}
}

func (f *fakePlatform) recompute(c *domain.Cart) {
	total := decimal.Zero
	qty := 0
	for _, l := range c.Lines {
		qty += l.Quantity
		total = total.Add(l.LineTotal().Amount)
	}
	c.TotalQuantity = qty
	c.Cost.Subtotal = domain.Money{Amount: total, CurrencyCode: "USD"}
	c.Cost.Total = c.Cost.Subtotal
}

func (f *fakePlatform) clone(c *domain.Cart) *domain.Cart {
	out := *c
	out.Lines = append([]domain.CartLine(nil), c.Lines...)
	return &out
}

func (f *fakePlatform) CreateCart(ctx context.Context, lines ...shopify.LineInput) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("create"); err != nil {
		return nil, err
	}

	f.nextID++
	id := fmt.Sprintf("gid://shopify/Cart/%d", f.nextID)
	c := &domain.Cart{ID: id, CheckoutURL: "https://plush-shop.myshopify.com/cart/c/" + id, Lines: []domain.CartLine{}}
	f.carts[id] = c
	f.addLocked(c, lines)
	return f.clone(c), nil
}

func (f *fakePlatform) GetCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("get"); err != nil {
		return nil, err
	}

	c, ok := f.carts[cartID]
	if !ok {
		return nil, domain.NotFound("shopify.getCart", "cart", cartID)
	}
	return f.clone(c), nil
}

func (f *fakePlatform) addLocked(c *domain.Cart, lines []shopify.LineInput) {
	for _, in := range lines {
		merged := false
		for i := range c.Lines {
			if c.Lines[i].Merchandise.ID == in.MerchandiseID {
				c.Lines[i].Quantity += in.Quantity
				merged = true
			}
		}
		if !merged {
			c.Lines = append(c.Lines, domain.CartLine{
				ID:       fmt.Sprintf("line-%s", in.MerchandiseID),
				Quantity: in.Quantity,
				Merchandise: domain.Merchandise{
					ID:    in.MerchandiseID,
					Title: "Default Title",
					Price: usd("10.00"),
				},
			})
		}
	}
	f.recompute(c)
}

func (f *fakePlatform) mutate(op, cartID string, apply func(c *domain.Cart) error) (*domain.Cart, error) {
	f.mu.Lock()
	hook := f.onMutate
	f.mu.Unlock()
	if hook != nil {
		hook(op)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(op); err != nil {
		return nil, err
	}
	c, ok := f.carts[cartID]
	if !ok {
		return nil, domain.CartFailure("shopify."+op, "The specified cart does not exist.")
	}
	if err := apply(c); err != nil {
		return nil, err
	}
	f.recompute(c)
	return f.clone(c), nil
}

func (f *fakePlatform) AddCartLines(ctx context.Context, cartID string, lines []shopify.LineInput) (*domain.Cart, error) {
	return f.mutate("add", cartID, func(c *domain.Cart) error {
		f.addLocked(c, lines)
		return nil
	})
}

func (f *fakePlatform) UpdateCartLines(ctx context.Context, cartID string, lines []shopify.LineUpdate) (*domain.Cart, error) {
	return f.mutate("update", cartID, func(c *domain.Cart) error {
		for _, u := range lines {
			line := c.Line(u.ID)
			if line == nil {
				return domain.CartFailure("shopify.cartLinesUpdate", "The merchandise line does not exist.")
			}
			line.Quantity = u.Quantity
		}
		return nil
	})
}

func (f *fakePlatform) RemoveCartLines(ctx context.Context, cartID string, lineIDs []string) (*domain.Cart, error) {
	return f.mutate("remove", cartID, func(c *domain.Cart) error {
		kept := c.Lines[:0]
		for _, l := range c.Lines {
			remove := false
			for _, id := range lineIDs {
				if l.ID == id {
					remove = true
				}
			}
			if !remove {
				kept = append(kept, l)
			}
		}
		c.Lines = kept
		return nil
	})
}

func (f *fakePlatform) GetProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("products"); err != nil {
		return nil, err
	}
	if limit > 0 && limit < len(f.products) {
		return f.products[:limit], nil
	}
	return f.products, nil
}

func (f *fakePlatform) GetProduct(ctx context.Context, handle string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("product"); err != nil {
		return nil, err
	}
	for i := range f.products {
		if f.products[i].Handle == handle {
			p := f.products[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakePlatform) SearchProducts(ctx context.Context, term string, limit int) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("search"); err != nil {
		return nil, err
	}
	f.searches = append(f.searches, term)
	return f.products, nil
}

func (f *fakePlatform) Shop(ctx context.Context) (*domain.Shop, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["shop"]++
	return f.shop, f.shopErr
}
