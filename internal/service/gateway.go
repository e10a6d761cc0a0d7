package service

import (
	"context"

	"github.com/dukerupert/plushies/internal/domain"
	"github.com/dukerupert/plushies/internal/shopify"
)

// CatalogGateway reads products and shop metadata from the commerce platform.
// *shopify.Client implements it.
type CatalogGateway interface {
	GetProducts(ctx context.Context, limit int) ([]domain.Product, error)
	GetProduct(ctx context.Context, handle string) (*domain.Product, error)
	SearchProducts(ctx context.Context, term string, limit int) ([]domain.Product, error)
	Shop(ctx context.Context) (*domain.Shop, error)
}

// CartGateway performs cart reads and mutations. Every method returns the
// complete cart as the platform now sees it. *shopify.Client implements it.
type CartGateway interface {
	CreateCart(ctx context.Context, lines ...shopify.LineInput) (*domain.Cart, error)
	GetCart(ctx context.Context, cartID string) (*domain.Cart, error)
	AddCartLines(ctx context.Context, cartID string, lines []shopify.LineInput) (*domain.Cart, error)
	UpdateCartLines(ctx context.Context, cartID string, lines []shopify.LineUpdate) (*domain.Cart, error)
	RemoveCartLines(ctx context.Context, cartID string, lineIDs []string) (*domain.Cart, error)
}

var (
	_ CatalogGateway = (*shopify.Client)(nil)
	_ CartGateway    = (*shopify.Client)(nil)
)
