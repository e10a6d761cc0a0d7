package storefront

import (
	"context"
	"testing"

	"github.com/dukerupert/plushies/internal/cookie"
	"github.com/dukerupert/plushies/internal/domain"
	"github.com/dukerupert/plushies/internal/handler"
	"github.com/dukerupert/plushies/internal/service"
)

// mockProductService implements service.ProductService for testing
type mockProductService struct {
	listFunc   func(ctx context.Context, limit int) ([]domain.Product, error)
	getFunc    func(ctx context.Context, handle string) (*domain.Product, error)
	searchFunc func(ctx context.Context, term string) ([]domain.Product, error)
	homeFunc   func(ctx context.Context) (*service.HomePage, error)
}

func (m *mockProductService) List(ctx context.Context, limit int) ([]domain.Product, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockProductService) Get(ctx context.Context, handle string) (*domain.Product, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, handle)
	}
	return nil, nil
}

func (m *mockProductService) Search(ctx context.Context, term string) ([]domain.Product, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, term)
	}
	return []domain.Product{}, nil
}

func (m *mockProductService) Home(ctx context.Context) (*service.HomePage, error) {
	if m.homeFunc != nil {
		return m.homeFunc(ctx)
	}
	return &service.HomePage{}, nil
}

// mockCartManager implements service.CartManager for testing
type mockCartManager struct {
	ensureFunc func(ctx context.Context) (*domain.Cart, error)
	resumeFunc func(ctx context.Context) (*domain.Cart, error)
	addFunc    func(ctx context.Context, variantID string, quantity int) (*domain.Cart, error)
	updateFunc func(ctx context.Context, lineID string, quantity int) (*domain.Cart, error)
	removeFunc func(ctx context.Context, lineID string) (*domain.Cart, error)
	clearFunc  func(ctx context.Context) error
	stateFunc  func() service.CartState
}

func (m *mockCartManager) EnsureCart(ctx context.Context) (*domain.Cart, error) {
	if m.ensureFunc != nil {
		return m.ensureFunc(ctx)
	}
	return nil, nil
}

func (m *mockCartManager) Resume(ctx context.Context) (*domain.Cart, error) {
	if m.resumeFunc != nil {
		return m.resumeFunc(ctx)
	}
	return nil, nil
}

func (m *mockCartManager) AddToCart(ctx context.Context, variantID string, quantity int) (*domain.Cart, error) {
	if m.addFunc != nil {
		return m.addFunc(ctx, variantID, quantity)
	}
	return &domain.Cart{}, nil
}

func (m *mockCartManager) UpdateCartItem(ctx context.Context, lineID string, quantity int) (*domain.Cart, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, lineID, quantity)
	}
	return &domain.Cart{}, nil
}

func (m *mockCartManager) RemoveFromCart(ctx context.Context, lineID string) (*domain.Cart, error) {
	if m.removeFunc != nil {
		return m.removeFunc(ctx, lineID)
	}
	return &domain.Cart{}, nil
}

func (m *mockCartManager) ClearCart(ctx context.Context) error {
	if m.clearFunc != nil {
		return m.clearFunc(ctx)
	}
	return nil
}

func (m *mockCartManager) State() service.CartState {
	if m.stateFunc != nil {
		return m.stateFunc()
	}
	return service.CartState{}
}

func opener(m *mockCartManager) service.SessionOpener {
	return func(service.CartIDStore) service.CartManager { return m }
}

func testRenderer(t *testing.T) *handler.Renderer {
	t.Helper()
	r, err := handler.NewRenderer(handler.Templates(), nil)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

func testCookies() *cookie.Config {
	return cookie.NewConfig("", false)
}
