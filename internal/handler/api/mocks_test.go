package api

import (
	"context"
	"encoding/json"

	"github.com/dukerupert/plushies/internal/domain"
	"github.com/dukerupert/plushies/internal/service"
	"github.com/dukerupert/plushies/internal/shopify"
)

// mockCartManager implements service.CartManager. Only AddToCart is
// exercised by the JSON endpoints.
type mockCartManager struct {
	service.CartManager

	store   service.CartIDStore
	addFunc func(ctx context.Context, store service.CartIDStore, variantID string, quantity int) (*domain.Cart, error)
}

func (m *mockCartManager) AddToCart(ctx context.Context, variantID string, quantity int) (*domain.Cart, error) {
	return m.addFunc(ctx, m.store, variantID, quantity)
}

func openerFor(addFunc func(ctx context.Context, store service.CartIDStore, variantID string, quantity int) (*domain.Cart, error)) service.SessionOpener {
	return func(store service.CartIDStore) service.CartManager {
		return &mockCartManager{store: store, addFunc: addFunc}
	}
}

// mockSearcher implements ProductSearcher
type mockSearcher struct {
	searchFunc func(ctx context.Context, key, term string) ([]domain.Product, error)
}

func (m *mockSearcher) Search(ctx context.Context, key, term string) ([]domain.Product, error) {
	return m.searchFunc(ctx, key, term)
}

// mockGateway implements Gateway
type mockGateway struct {
	status          shopify.Status
	shopFunc        func(ctx context.Context) (*domain.Shop, error)
	getProductsFunc func(ctx context.Context, limit int) ([]domain.Product, error)
	rawProductsFunc func(ctx context.Context, limit int) (json.RawMessage, error)
}

func (m *mockGateway) Status() shopify.Status { return m.status }

func (m *mockGateway) Shop(ctx context.Context) (*domain.Shop, error) {
	if m.shopFunc != nil {
		return m.shopFunc(ctx)
	}
	return &domain.Shop{}, nil
}

func (m *mockGateway) GetProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	if m.getProductsFunc != nil {
		return m.getProductsFunc(ctx, limit)
	}
	return []domain.Product{}, nil
}

func (m *mockGateway) RawProducts(ctx context.Context, limit int) (json.RawMessage, error) {
	if m.rawProductsFunc != nil {
		return m.rawProductsFunc(ctx, limit)
	}
	return json.RawMessage(`{}`), nil
}
