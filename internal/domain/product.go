package domain

import "strings"

// =============================================================================
// PRODUCT DOMAIN TYPES
// =============================================================================

// Product is a catalog entry as served by the commerce platform.
// The storefront never writes products; it only shapes them for rendering.
type Product struct {
	ID                  string          `json:"id"`
	Handle              string          `json:"handle"`
	Title               string          `json:"title"`
	Description         string          `json:"description"`
	DescriptionHTML     string          `json:"descriptionHtml,omitempty"`
	Vendor              string          `json:"vendor,omitempty"`
	ProductType         string          `json:"productType,omitempty"`
	Tags                []string        `json:"tags"`
	PriceRange          PriceRange      `json:"priceRange"`
	CompareAtPriceRange *PriceRange     `json:"compareAtPriceRange,omitempty"`
	Options             []ProductOption `json:"options,omitempty"`
	Variants            []Variant       `json:"variants"`
	Images              []Image         `json:"images"`
	SEO                 SEO             `json:"seo"`
}

type PriceRange struct {
	MinVariantPrice Money `json:"minVariantPrice"`
	MaxVariantPrice Money `json:"maxVariantPrice"`
}

// ProductOption is a selectable axis such as "Size" or "Color".
type ProductOption struct {
	ID     string   `json:"id,omitempty"`
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Variant is one purchasable combination of option values.
type Variant struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	AvailableForSale bool             `json:"availableForSale"`
	Price            Money            `json:"price"`
	CompareAtPrice   *Money           `json:"compareAtPrice,omitempty"`
	SelectedOptions  []SelectedOption `json:"selectedOptions"`
	Image            *Image           `json:"image,omitempty"`
}

type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
}

type SEO struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// FeaturedImage returns the first image, or nil when the product has none.
func (p *Product) FeaturedImage() *Image {
	if len(p.Images) == 0 {
		return nil
	}
	return &p.Images[0]
}

// HasVariantChoice reports whether the product has more than the
// platform's implicit "Default Title" variant.
func (p *Product) HasVariantChoice() bool {
	return len(p.Variants) > 1
}

// DefaultVariant picks the first variant available for sale, falling back
// to the first variant. Returns nil for a product without variants.
func (p *Product) DefaultVariant() *Variant {
	for i := range p.Variants {
		if p.Variants[i].AvailableForSale {
			return &p.Variants[i]
		}
	}
	if len(p.Variants) > 0 {
		return &p.Variants[0]
	}
	return nil
}

// FindVariant returns the variant with the given ID, or nil.
func (p *Product) FindVariant(id string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i]
		}
	}
	return nil
}

// MatchVariant finds the first variant whose selected options agree with
// every entry in selected. Option names are compared case-insensitively and
// options absent from selected match anything. The match is returned only if
// it is available for sale; otherwise nil, so the caller keeps its current
// choice.
func (p *Product) MatchVariant(selected map[string]string) *Variant {
	wanted := make(map[string]string, len(selected))
	for name, value := range selected {
		if value != "" {
			wanted[strings.ToLower(name)] = value
		}
	}
	if len(wanted) == 0 {
		return nil
	}

	for i := range p.Variants {
		v := &p.Variants[i]
		matches := true
		for _, opt := range v.SelectedOptions {
			if want, ok := wanted[strings.ToLower(opt.Name)]; ok && want != opt.Value {
				matches = false
				break
			}
		}
		if !matches {
			continue
		}
		if v.AvailableForSale {
			return v
		}
		return nil
	}
	return nil
}

// SelectedOptionValue returns the variant's value for the named option.
func (v *Variant) SelectedOptionValue(name string) string {
	for _, opt := range v.SelectedOptions {
		if strings.EqualFold(opt.Name, name) {
			return opt.Value
		}
	}
	return ""
}

// OnSale reports whether the variant has a compare-at price above its price.
func (v *Variant) OnSale() bool {
	return v.CompareAtPrice != nil && v.CompareAtPrice.Amount.GreaterThan(v.Price.Amount)
}

// Shop is the storefront's own metadata.
type Shop struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	PrimaryDomain struct {
		URL string `json:"url"`
	} `json:"primaryDomain"`
}
