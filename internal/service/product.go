package service

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/dukerupert/plushies/internal/domain"
	"github.com/dukerupert/plushies/internal/telemetry"
)

// MinSearchLength is the shortest trimmed term sent to the platform.
const MinSearchLength = 2

// FeaturedLimit is how many products the home page shows.
const FeaturedLimit = 8

// ProductService provides catalog reads for pages and the JSON API
type ProductService interface {
	List(ctx context.Context, limit int) ([]domain.Product, error)
	Get(ctx context.Context, handle string) (*domain.Product, error)
	Search(ctx context.Context, term string) ([]domain.Product, error)
	Home(ctx context.Context) (*HomePage, error)
}

// HomePage aggregates what the landing page renders
type HomePage struct {
	Shop     *domain.Shop
	Featured []domain.Product
}

type productService struct {
	catalog     CatalogGateway
	searchLimit int
	logger      *slog.Logger
}

// NewProductService creates a new ProductService instance
func NewProductService(catalog CatalogGateway, searchLimit int, logger *slog.Logger) ProductService {
	if logger == nil {
		logger = slog.Default()
	}
	return &productService{
		catalog:     catalog,
		searchLimit: searchLimit,
		logger:      logger,
	}
}

// List returns up to limit products
func (s *productService) List(ctx context.Context, limit int) ([]domain.Product, error) {
	products, err := s.catalog.GetProducts(ctx, limit)
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Get returns a product by handle, or (nil, nil) when no product has it
func (s *productService) Get(ctx context.Context, handle string) (*domain.Product, error) {
	return s.catalog.GetProduct(ctx, handle)
}

// Search returns products matching term. Terms shorter than MinSearchLength
// after trimming yield an empty list without a gateway call.
func (s *productService) Search(ctx context.Context, term string) ([]domain.Product, error) {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < MinSearchLength {
		recordSearch("too_short")
		return []domain.Product{}, nil
	}

	products, err := s.catalog.SearchProducts(ctx, term, s.searchLimit)
	if err != nil {
		recordSearch("error")
		return nil, err
	}

	if len(products) == 0 {
		recordSearch("empty")
	} else {
		recordSearch("results")
	}
	return products, nil
}

// Home fetches shop metadata and featured products concurrently. A shop
// lookup failure is logged and leaves Shop nil; a product failure fails the page.
func (s *productService) Home(ctx context.Context) (*HomePage, error) {
	page := &HomePage{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		shop, err := s.catalog.Shop(gctx)
		if err != nil {
			s.logger.WarnContext(ctx, "shop metadata unavailable", "error", err)
			return nil
		}
		page.Shop = shop
		return nil
	})

	g.Go(func() error {
		products, err := s.catalog.GetProducts(gctx, FeaturedLimit)
		if err != nil {
			return err
		}
		page.Featured = products
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return page, nil
}

func recordSearch(outcome string) {
	if telemetry.Business != nil {
		telemetry.Business.ProductSearches.WithLabelValues(outcome).Inc()
	}
}
