package shopify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/plushies/internal/domain"
)

// fakeStorefront answers every request with handler and counts hits.
type fakeStorefront struct {
	*httptest.Server
	hits atomic.Int32
}

func newFakeStorefront(t *testing.T, handler func(w http.ResponseWriter, body payload)) *fakeStorefront {
	t.Helper()
	f := &fakeStorefront{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		var body payload
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		handler(w, body)
	}))
	t.Cleanup(f.Close)
	return f
}

func newTestClient(endpoint string) *Client {
	return New(Config{
		StoreDomain:     "plush-shop.myshopify.com",
		StorefrontToken: "token-123",
		Endpoint:        endpoint,
		CacheTTL:        time.Hour,
		HTTPClient:      &http.Client{Timeout: 5 * time.Second},
	})
}

func TestExecute_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantMsg string
	}{
		{
			name:    "missing store domain",
			cfg:     Config{StorefrontToken: "token-123"},
			wantMsg: "SHOPIFY_STORE_DOMAIN",
		},
		{
			name:    "missing access token",
			cfg:     Config{StoreDomain: "plush-shop.myshopify.com"},
			wantMsg: "SHOPIFY_STOREFRONT_ACCESS_TOKEN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dialed atomic.Bool
			tt.cfg.HTTPClient = &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
				dialed.Store(true)
				return nil, io.EOF
			})}
			c := New(tt.cfg)

			err := c.Execute(context.Background(), Request{Name: "getProducts", Query: getProductsQuery}, nil)

			require.Error(t, err)
			assert.Equal(t, domain.ECONFIG, domain.ErrorCode(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.False(t, dialed.Load(), "no request may be sent")
			assert.False(t, c.Configured())
		})
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestExecute_SendsPayloadAndToken(t *testing.T) {
	var gotToken, gotContentType, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get(tokenHeader)
		gotContentType = r.Header.Get("Content-Type")
		gotMethod = r.Method

		var body payload
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body.Query, "query getProduct")
		assert.Equal(t, "bunny", body.Variables["handle"])

		w.Write([]byte(`{"data":{"product":{"id":"gid://shopify/Product/1","handle":"bunny"}}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	var out struct {
		Product struct {
			Handle string `json:"handle"`
		} `json:"product"`
	}
	err := c.Execute(context.Background(), Request{
		Name:      "getProduct",
		Query:     getProductQuery,
		Variables: map[string]any{"handle": "bunny"},
	}, &out)

	require.NoError(t, err)
	assert.Equal(t, "bunny", out.Product.Handle)
	assert.Equal(t, "token-123", gotToken)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, http.MethodPost, gotMethod)
}

func TestExecute_GatewayErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{
			name:    "non-2xx status",
			status:  http.StatusInternalServerError,
			body:    `{}`,
			wantMsg: "Shopify API error: Internal Server Error",
		},
		{
			name:    "unauthorized",
			status:  http.StatusUnauthorized,
			body:    ``,
			wantMsg: "Shopify API error: Unauthorized",
		},
		{
			name:    "graphql errors surface the first message",
			status:  http.StatusOK,
			body:    `{"errors":[{"message":"Field 'foo' doesn't exist"},{"message":"second"}]}`,
			wantMsg: "Field 'foo' doesn't exist",
		},
		{
			name:    "graphql errors without message",
			status:  http.StatusOK,
			body:    `{"errors":[{}]}`,
			wantMsg: "GraphQL Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := newTestClient(srv.URL).Execute(context.Background(), Request{Name: "getProducts", Query: getProductsQuery}, nil)

			require.Error(t, err)
			assert.Equal(t, domain.EGATEWAY, domain.ErrorCode(err))
			assert.Equal(t, tt.wantMsg, domain.ErrorMessage(err))
		})
	}
}

func TestExecute_Cache(t *testing.T) {
	srv := newFakeStorefront(t, func(w http.ResponseWriter, _ payload) {
		w.Write([]byte(`{"data":{"products":{"edges":[]}}}`))
	})
	c := newTestClient(srv.URL)
	ctx := context.Background()

	cached := Request{Name: "getProducts", Query: getProductsQuery, Variables: map[string]any{"numProducts": 20}, Cache: true}
	require.NoError(t, c.Execute(ctx, cached, nil))
	require.NoError(t, c.Execute(ctx, cached, nil))
	assert.Equal(t, int32(1), srv.hits.Load(), "second cached read is served from memory")

	other := cached
	other.Variables = map[string]any{"numProducts": 3}
	require.NoError(t, c.Execute(ctx, other, nil))
	assert.Equal(t, int32(2), srv.hits.Load(), "different variables miss the cache")

	uncached := Request{Name: "getCart", Query: getCartQuery, Variables: map[string]any{"cartId": "c1"}}
	require.NoError(t, c.Execute(ctx, uncached, nil))
	require.NoError(t, c.Execute(ctx, uncached, nil))
	assert.Equal(t, int32(4), srv.hits.Load(), "uncached requests always reach the gateway")
}

func TestExecute_CacheSkipsFailures(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	srv := newFakeStorefront(t, func(w http.ResponseWriter, _ payload) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"data":{"shop":{"name":"Plushies"}}}`))
	})
	c := newTestClient(srv.URL)

	_, err := c.Shop(context.Background())
	require.Error(t, err)

	fail.Store(false)
	shop, err := c.Shop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Plushies", shop.Name)
	assert.Equal(t, int32(2), srv.hits.Load())
}

func TestExecute_SharedReadSurvivesCallerCancel(t *testing.T) {
	release := make(chan struct{})
	srv := newFakeStorefront(t, func(w http.ResponseWriter, _ payload) {
		<-release
		w.Write([]byte(`{"data":{"products":{"edges":[{"node":{"handle":"bear"}}]}}}`))
	})
	var once sync.Once
	unblock := func() { once.Do(func() { close(release) }) }
	t.Cleanup(unblock)

	c := newTestClient(srv.URL)

	ctxA, cancelA := context.WithCancel(context.Background())
	defer cancelA()
	errA := make(chan error, 1)
	go func() {
		_, err := c.SearchProducts(ctxA, "bear", 10)
		errA <- err
	}()
	require.Eventually(t, func() bool { return srv.hits.Load() == 1 }, time.Second, 5*time.Millisecond)

	type result struct {
		products []domain.Product
		err      error
	}
	resB := make(chan result, 1)
	go func() {
		products, err := c.SearchProducts(context.Background(), "bear", 10)
		resB <- result{products, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	err := <-errA
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotEqual(t, domain.EGATEWAY, domain.ErrorCode(err), "a caller's own cancel is not a gateway failure")

	unblock()
	got := <-resB
	require.NoError(t, got.err)
	require.Len(t, got.products, 1)
	assert.Equal(t, "bear", got.products[0].Handle)

	// The detached round trip still fills the cache.
	_, err = c.SearchProducts(context.Background(), "bear", 10)
	require.NoError(t, err)
	assert.LessOrEqual(t, srv.hits.Load(), int32(2))
}

func TestExecute_CallerCancelIsNotGatewayError(t *testing.T) {
	srv := newFakeStorefront(t, func(w http.ResponseWriter, _ payload) {
		w.Write([]byte(`{"data":{"cart":null}}`))
	})
	c := newTestClient(srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Execute(ctx, Request{Name: "getCart", Query: getCartQuery, Variables: map[string]any{"cartId": "c1"}}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, domain.IsCode(err, domain.EGATEWAY))
}

func TestResponseCache_Expiry(t *testing.T) {
	now := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)
	c := newResponseCache(time.Minute, 2)
	c.now = func() time.Time { return now }

	c.set("a", json.RawMessage(`1`))
	got, ok := c.get("a")
	require.True(t, ok)
	assert.JSONEq(t, `1`, string(got))

	now = now.Add(time.Minute)
	_, ok = c.get("a")
	assert.False(t, ok, "entry expires at ttl")

	c.set("b", json.RawMessage(`2`))
	now = now.Add(time.Second)
	c.set("c", json.RawMessage(`3`))
	c.set("d", json.RawMessage(`4`))
	_, ok = c.get("b")
	assert.False(t, ok, "closest-to-expiry entry is evicted when full")
	_, ok = c.get("d")
	assert.True(t, ok)
}

func TestCacheKey(t *testing.T) {
	a := cacheKey("q", map[string]any{"x": 1, "y": "two"})
	b := cacheKey("q", map[string]any{"y": "two", "x": 1})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, cacheKey("q2", map[string]any{"x": 1, "y": "two"}))
}

func TestStatus(t *testing.T) {
	c := New(Config{StoreDomain: "https://plush-shop.myshopify.com/", StorefrontToken: "t", CacheTTL: time.Hour})

	s := c.Status()
	assert.True(t, s.HasDomain)
	assert.True(t, s.HasToken)
	assert.Equal(t, "plu*******.myshopify.com", s.Domain)
	assert.Equal(t, DefaultAPIVersion, s.APIVersion)
	assert.Equal(t, 3600, s.CacheTTLSec)
	assert.Equal(t, "https://plush-shop.myshopify.com/api/2024-10/graphql.json", c.endpoint())
	assert.True(t, c.Configured())
}

func TestRaw(t *testing.T) {
	srv := newFakeStorefront(t, func(w http.ResponseWriter, body payload) {
		assert.True(t, strings.HasPrefix(strings.TrimSpace(body.Query), "query getProducts"))
		w.Write([]byte(`{"data":{"products":{"edges":[{"node":{"handle":"bear"}}]}}}`))
	})
	c := newTestClient(srv.URL)

	raw, err := c.Raw(context.Background(), Request{Name: "getProducts", Query: getProductsQuery, Cache: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"products":{"edges":[{"node":{"handle":"bear"}}]}}`, string(raw))

	_, err = c.Raw(context.Background(), Request{Name: "getProducts", Query: getProductsQuery, Cache: true})
	require.NoError(t, err)
	assert.Equal(t, int32(2), srv.hits.Load(), "raw calls bypass the cache")
}
