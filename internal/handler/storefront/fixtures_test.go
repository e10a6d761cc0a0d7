package storefront

import (
	"github.com/shopspring/decimal"

	"github.com/dukerupert/plushies/internal/domain"
)

func usd(amount string) domain.Money {
	return domain.Money{Amount: decimal.RequireFromString(amount), CurrencyCode: "USD"}
}

func bunnyProduct() *domain.Product {
	return &domain.Product{
		ID:              "gid://shopify/Product/1",
		Handle:          "bun-bun",
		Title:           "Bun Bun",
		Description:     "A very soft bunny.",
		DescriptionHTML: "<p>A very <strong>soft</strong> bunny.</p>",
		PriceRange:      domain.PriceRange{MinVariantPrice: usd("19.90"), MaxVariantPrice: usd("29.90")},
		Options: []domain.ProductOption{
			{Name: "Size", Values: []string{"Small", "Large", "Giant"}},
		},
		Variants: []domain.Variant{
			{
				ID: "v-small", Title: "Small", AvailableForSale: true, Price: usd("19.90"),
				SelectedOptions: []domain.SelectedOption{{Name: "Size", Value: "Small"}},
			},
			{
				ID: "v-large", Title: "Large", AvailableForSale: true, Price: usd("29.90"),
				SelectedOptions: []domain.SelectedOption{{Name: "Size", Value: "Large"}},
			},
			{
				ID: "v-giant", Title: "Giant", AvailableForSale: false, Price: usd("59.90"),
				SelectedOptions: []domain.SelectedOption{{Name: "Size", Value: "Giant"}},
			},
		},
		Images: []domain.Image{{URL: "https://cdn.example.com/bun.png", AltText: "Bun Bun"}},
	}
}

func sampleCart() *domain.Cart {
	return &domain.Cart{
		ID:            "gid://shopify/Cart/abc",
		CheckoutURL:   "https://plush-shop.myshopify.com/cart/c/abc",
		TotalQuantity: 2,
		Lines: []domain.CartLine{
			{
				ID:       "line-1",
				Quantity: 2,
				Merchandise: domain.Merchandise{
					ID:      "v-small",
					Title:   "Small",
					Price:   usd("19.90"),
					Product: domain.LineProduct{Title: "Bun Bun", Handle: "bun-bun"},
				},
			},
		},
		Cost: domain.CartCost{Subtotal: usd("39.80"), Total: usd("39.80")},
	}
}
