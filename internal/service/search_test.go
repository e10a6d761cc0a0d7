package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/plushies/internal/domain"
)

// blockingProducts is a ProductService whose Search waits for release or
// cancellation.
type blockingProducts struct {
	ProductService
	release chan struct{}
	mu      sync.Mutex
	terms   []string
}

func (b *blockingProducts) Search(ctx context.Context, term string) ([]domain.Product, error) {
	b.mu.Lock()
	b.terms = append(b.terms, term)
	b.mu.Unlock()

	select {
	case <-b.release:
		return []domain.Product{{Handle: term}}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (b *blockingProducts) searched() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.terms...)
}

func TestSearcher_SupersedesInFlight(t *testing.T) {
	products := &blockingProducts{release: make(chan struct{})}
	s := NewSearcher(products, -1)

	errc := make(chan error, 1)
	go func() {
		_, err := s.Search(context.Background(), "visitor-1", "bun")
		errc <- err
	}()
	require.Eventually(t, func() bool { return len(products.searched()) == 1 }, time.Second, time.Millisecond)

	done := make(chan []domain.Product, 1)
	go func() {
		got, err := s.Search(context.Background(), "visitor-1", "bunny")
		assert.NoError(t, err)
		done <- got
	}()

	assert.ErrorIs(t, <-errc, ErrSearchSuperseded, "older search is cancelled")

	close(products.release)
	got := <-done
	require.Len(t, got, 1)
	assert.Equal(t, "bunny", got[0].Handle)
}

func TestSearcher_DebounceDropsSuperseded(t *testing.T) {
	platform := catalogFixture()
	s := NewSearcher(NewProductService(platform, 10, nil), 100*time.Millisecond)

	errc := make(chan error, 1)
	go func() {
		_, err := s.Search(context.Background(), "visitor-1", "bu")
		errc <- err
	}()
	time.Sleep(20 * time.Millisecond)

	got, err := s.Search(context.Background(), "visitor-1", "bun")

	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.ErrorIs(t, <-errc, ErrSearchSuperseded)
	assert.Equal(t, []string{"bun"}, platform.searches, "only the newest term reaches the gateway")
}

func TestSearcher_KeysAreIndependent(t *testing.T) {
	products := &blockingProducts{release: make(chan struct{})}
	s := NewSearcher(products, -1)

	var wg sync.WaitGroup
	for _, key := range []string{"visitor-1", "visitor-2", ""} {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			_, err := s.Search(context.Background(), key, "bear")
			assert.NoError(t, err)
		}(key)
	}
	require.Eventually(t, func() bool { return len(products.searched()) == 3 }, time.Second, time.Millisecond)

	close(products.release)
	wg.Wait()
}

func TestSearcher_ShortTermSkipsDebounce(t *testing.T) {
	platform := catalogFixture()
	s := NewSearcher(NewProductService(platform, 10, nil), time.Hour)

	got, err := s.Search(context.Background(), "visitor-1", "b")

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, platform.count("search"))
}

func TestSearcher_CallerCancellation(t *testing.T) {
	s := NewSearcher(NewProductService(catalogFixture(), 10, nil), time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Search(ctx, "visitor-1", "bunny")

	assert.ErrorIs(t, err, context.Canceled)
}
