package service

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dukerupert/plushies/internal/domain"
	"github.com/dukerupert/plushies/internal/telemetry"
)

// DefaultSearchDebounce is the quiet period before a search is sent.
const DefaultSearchDebounce = 300 * time.Millisecond

// Searcher runs as-you-type searches. Each key (one per visitor) has at most
// one live search: a newer call cancels the older one, which then returns
// ErrSearchSuperseded instead of its results.
type Searcher struct {
	products ProductService
	debounce time.Duration

	mu       sync.Mutex
	inflight map[string]*liveSearch
}

type liveSearch struct {
	cancel     context.CancelFunc
	superseded bool
}

// NewSearcher creates a Searcher. A negative debounce disables the delay.
func NewSearcher(products ProductService, debounce time.Duration) *Searcher {
	return &Searcher{
		products: products,
		debounce: debounce,
		inflight: make(map[string]*liveSearch),
	}
}

// Search waits out the debounce period and then searches for term.
// Terms below MinSearchLength return an empty list immediately, still
// superseding any earlier search for key. An empty key is never superseded.
func (s *Searcher) Search(ctx context.Context, key, term string) ([]domain.Product, error) {
	ctx, live := s.begin(ctx, key)
	defer s.end(key, live)

	if utf8.RuneCountInString(strings.TrimSpace(term)) < MinSearchLength {
		return s.products.Search(ctx, term)
	}

	if s.debounce > 0 {
		timer := time.NewTimer(s.debounce)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, s.abandoned(ctx, live)
		}
	}

	products, err := s.products.Search(ctx, term)
	if s.isSuperseded(live) {
		return nil, s.abandoned(ctx, live)
	}
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Searcher) begin(ctx context.Context, key string) (context.Context, *liveSearch) {
	ctx, cancel := context.WithCancel(ctx)
	live := &liveSearch{cancel: cancel}
	if key == "" {
		return ctx, live
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.inflight[key]; ok {
		prev.superseded = true
		prev.cancel()
	}
	s.inflight[key] = live
	return ctx, live
}

func (s *Searcher) end(key string, live *liveSearch) {
	live.cancel()
	if key == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[key] == live {
		delete(s.inflight, key)
	}
}

func (s *Searcher) isSuperseded(live *liveSearch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return live.superseded
}

// abandoned reports why a search stopped early.
func (s *Searcher) abandoned(ctx context.Context, live *liveSearch) error {
	if s.isSuperseded(live) {
		if telemetry.Business != nil {
			telemetry.Business.SearchSuperseded.Inc()
		}
		return ErrSearchSuperseded
	}
	return ctx.Err()
}
