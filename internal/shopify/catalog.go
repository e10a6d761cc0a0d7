package shopify

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/dukerupert/plushies/internal/domain"
)

// Default page sizes for catalog reads.
const (
	DefaultProductsLimit = 20
	DefaultSearchLimit   = 10
)

// productNode mirrors a Product as returned by the Storefront API. Fields
// whose wire shape already matches the domain type decode straight into it.
type productNode struct {
	ID                  string                     `json:"id"`
	Handle              string                     `json:"handle"`
	Title               string                     `json:"title"`
	Description         string                     `json:"description"`
	DescriptionHTML     string                     `json:"descriptionHtml"`
	Vendor              string                     `json:"vendor"`
	ProductType         string                     `json:"productType"`
	Tags                []string                   `json:"tags"`
	PriceRange          domain.PriceRange          `json:"priceRange"`
	CompareAtPriceRange *domain.PriceRange         `json:"compareAtPriceRange"`
	Options             []domain.ProductOption     `json:"options"`
	Images              Connection[domain.Image]   `json:"images"`
	Variants            Connection[domain.Variant] `json:"variants"`
	SEO                 domain.SEO                 `json:"seo"`
}

func (n productNode) toDomain() domain.Product {
	p := domain.Product{
		ID:              n.ID,
		Handle:          n.Handle,
		Title:           n.Title,
		Description:     n.Description,
		DescriptionHTML: n.DescriptionHTML,
		Vendor:          n.Vendor,
		ProductType:     n.ProductType,
		Tags:            n.Tags,
		PriceRange:      n.PriceRange,
		Options:         n.Options,
		Images:          n.Images.Nodes(),
		Variants:        n.Variants.Nodes(),
		SEO:             n.SEO,
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	// A zero compare-at range means the product is not discounted.
	if r := n.CompareAtPriceRange; r != nil && !r.MaxVariantPrice.IsZero() {
		p.CompareAtPriceRange = r
	}
	for i := range p.Variants {
		if at := p.Variants[i].CompareAtPrice; at != nil && at.IsZero() {
			p.Variants[i].CompareAtPrice = nil
		}
	}
	return p
}

func toProducts(nodes []productNode) []domain.Product {
	out := make([]domain.Product, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.toDomain())
	}
	return out
}

type productsData struct {
	Products Connection[productNode] `json:"products"`
}

// GetProducts returns up to limit products in the platform's default order.
func (c *Client) GetProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = DefaultProductsLimit
	}

	var data productsData
	err := c.Execute(ctx, Request{
		Name:      "getProducts",
		Query:     getProductsQuery,
		Variables: map[string]any{"numProducts": limit},
		Cache:     true,
	}, &data)
	if err != nil {
		return nil, err
	}

	return toProducts(data.Products.Nodes()), nil
}

// RawProducts runs the product listing query uncached and returns the
// undecoded response data.
func (c *Client) RawProducts(ctx context.Context, limit int) (json.RawMessage, error) {
	if limit <= 0 {
		limit = DefaultProductsLimit
	}
	return c.Raw(ctx, Request{
		Name:      "getProducts",
		Query:     getProductsQuery,
		Variables: map[string]any{"numProducts": limit},
	})
}

// GetProduct returns the product with the given handle. An unknown handle
// yields (nil, nil).
func (c *Client) GetProduct(ctx context.Context, handle string) (*domain.Product, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, nil
	}

	var data struct {
		Product *productNode `json:"product"`
	}
	err := c.Execute(ctx, Request{
		Name:      "getProduct",
		Query:     getProductQuery,
		Variables: map[string]any{"handle": handle},
		Cache:     true,
	}, &data)
	if err != nil {
		return nil, err
	}
	if data.Product == nil {
		return nil, nil
	}

	p := data.Product.toDomain()
	return &p, nil
}

// SearchProducts runs the platform's product search for term. The term is
// passed through unmodified; minimum-length rules belong to the caller.
func (c *Client) SearchProducts(ctx context.Context, term string, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	var data productsData
	err := c.Execute(ctx, Request{
		Name:      "searchProducts",
		Query:     searchProductsQuery,
		Variables: map[string]any{"query": term, "numProducts": limit},
		Cache:     true,
	}, &data)
	if err != nil {
		return nil, err
	}

	return toProducts(data.Products.Nodes()), nil
}

// Shop returns the store's name, description and primary domain.
func (c *Client) Shop(ctx context.Context) (*domain.Shop, error) {
	var data struct {
		Shop domain.Shop `json:"shop"`
	}
	err := c.Execute(ctx, Request{Name: "shop", Query: shopQuery, Cache: true}, &data)
	if err != nil {
		return nil, err
	}
	return &data.Shop, nil
}
