// Package shopify is the storefront's gateway to the Shopify Storefront
// GraphQL API. Client.Execute handles transport, configuration checks, error
// translation and the catalog read cache; catalog.go and cart.go hold the
// fixed documents and shape their results into domain types.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dukerupert/plushies/internal/domain"
	"github.com/dukerupert/plushies/internal/telemetry"
)

const (
	// DefaultAPIVersion is the Storefront API version the documents target.
	DefaultAPIVersion = "2024-10"

	// DefaultCacheTTL is how long catalog reads are served from memory.
	DefaultCacheTTL = time.Hour

	tokenHeader = "X-Shopify-Storefront-Access-Token"

	// maxResponseBytes bounds a single gateway response.
	maxResponseBytes = 8 << 20
)

// Config holds the Storefront API connection settings.
type Config struct {
	StoreDomain     string
	StorefrontToken string
	APIVersion      string
	CacheTTL        time.Duration
	Timeout         time.Duration

	// Endpoint overrides https://{domain}/api/{version}/graphql.json.
	Endpoint string

	// HTTPClient is used as-is when set; otherwise one is built with Timeout
	// and a Sentry tracing transport.
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Client executes GraphQL documents against the Storefront API.
// A Client with missing credentials is valid; every call on it fails with a
// configuration error before touching the network.
type Client struct {
	cfg        Config
	httpClient *http.Client
	cache      *responseCache
	inflight   singleflight.Group
	logger     *slog.Logger
}

// New creates a gateway client.
func New(cfg Config) *Client {
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	cfg.StoreDomain = strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(cfg.StoreDomain), "https://"), "/")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: &telemetry.HTTPTransport{Transport: http.DefaultTransport},
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		cache:      newResponseCache(cfg.CacheTTL, 0),
		logger:     logger.With("component", "shopify"),
	}
}

// Request is one GraphQL call.
type Request struct {
	// Name labels the call in logs and metrics (e.g., "getProduct").
	Name      string
	Query     string
	Variables map[string]any

	// Cache allows a fresh cached response to be served. Cart operations
	// must leave it false.
	Cache bool
}

// Status reports which connection settings are present.
type Status struct {
	HasDomain   bool   `json:"hasDomain"`
	HasToken    bool   `json:"hasToken"`
	Domain      string `json:"domain,omitempty"` // masked
	APIVersion  string `json:"apiVersion"`
	CacheTTLSec int    `json:"cacheTtlSeconds"`
}

// Status returns the client's configuration state without secrets.
func (c *Client) Status() Status {
	return Status{
		HasDomain:   c.cfg.StoreDomain != "",
		HasToken:    c.cfg.StorefrontToken != "",
		Domain:      maskDomain(c.cfg.StoreDomain),
		APIVersion:  c.cfg.APIVersion,
		CacheTTLSec: int(c.cfg.CacheTTL / time.Second),
	}
}

// Configured reports whether both the store domain and the token are set.
func (c *Client) Configured() bool {
	return c.checkConfig("shopify.configured") == nil
}

func maskDomain(d string) string {
	if d == "" {
		return ""
	}
	name, rest, found := strings.Cut(d, ".")
	if len(name) <= 3 {
		return d
	}
	masked := name[:3] + strings.Repeat("*", len(name)-3)
	if found {
		masked += "." + rest
	}
	return masked
}

func (c *Client) endpoint() string {
	if c.cfg.Endpoint != "" {
		return c.cfg.Endpoint
	}
	return fmt.Sprintf("https://%s/api/%s/graphql.json", c.cfg.StoreDomain, c.cfg.APIVersion)
}

// checkConfig fails before any network activity when a setting is missing.
func (c *Client) checkConfig(op string) error {
	if c.cfg.StoreDomain == "" && c.cfg.Endpoint == "" {
		return domain.Configuration(op, "SHOPIFY_STORE_DOMAIN",
			"Set it in your environment (.env for local). Example: SHOPIFY_STORE_DOMAIN=your-store.myshopify.com")
	}
	if c.cfg.StorefrontToken == "" {
		return domain.Configuration(op, "SHOPIFY_STOREFRONT_ACCESS_TOKEN",
			"Set a valid Storefront API token from your headless sales channel.")
	}
	return nil
}

// Execute runs req and decodes its data member into out.
//
// Errors:
//   - domain.ECONFIG when the store domain or token is unset (no request is made)
//   - domain.EGATEWAY for transport failures, non-2xx statuses and GraphQL errors
func (c *Client) Execute(ctx context.Context, req Request, out any) error {
	const op = "shopify.execute"

	data, err := c.data(ctx, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return domain.Gateway(err, op, "Unexpected response from Shopify")
	}
	return nil
}

// Raw runs req without the cache and returns the undecoded data member.
// Diagnostics endpoints echo it back.
func (c *Client) Raw(ctx context.Context, req Request) (json.RawMessage, error) {
	req.Cache = false
	return c.data(ctx, req)
}

func (c *Client) data(ctx context.Context, req Request) (json.RawMessage, error) {
	if err := c.checkConfig("shopify." + req.Name); err != nil {
		return nil, err
	}
	if !req.Cache {
		data, err := c.roundTrip(ctx, req)
		if err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return data, err
	}

	key := cacheKey(req.Query, req.Variables)
	if data, ok := c.cache.get(key); ok {
		if telemetry.Business != nil {
			telemetry.Business.GatewayCacheHit.WithLabelValues(req.Name).Inc()
		}
		return data, nil
	}

	// Identical concurrent catalog reads share one round trip. It runs
	// detached from the caller that started it, so one caller giving up does
	// not fail the others waiting on the same key.
	shared := context.WithoutCancel(ctx)
	ch := c.inflight.DoChan(key, func() (any, error) {
		rtCtx, cancel := context.WithTimeout(shared, c.cfg.Timeout)
		defer cancel()

		data, err := c.roundTrip(rtCtx, req)
		if err != nil {
			return nil, err
		}
		c.cache.set(key, data)
		return data, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(json.RawMessage), nil
	}
}

func (c *Client) roundTrip(ctx context.Context, req Request) (data json.RawMessage, err error) {
	op := "shopify." + req.Name
	start := time.Now()
	logger := c.logger.With("operation", req.Name)

	ctx, finish := telemetry.StartSpan(ctx, "shopify.graphql", req.Name)
	defer finish()

	defer func() {
		elapsed := time.Since(start)
		if telemetry.Business != nil {
			telemetry.Business.GatewayLatency.WithLabelValues(req.Name).Observe(elapsed.Seconds())
			if err != nil {
				telemetry.Business.GatewayErrors.WithLabelValues(req.Name, domain.ErrorCode(err)).Inc()
			}
		}
		if err != nil {
			logger.Warn("gateway call failed", "duration", elapsed, "error", err)
			return
		}
		logger.Debug("gateway call", "duration", elapsed)
	}()

	variables := req.Variables
	if variables == nil {
		variables = map[string]any{}
	}
	body, err := json.Marshal(payload{Query: req.Query, Variables: variables})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to encode request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, domain.Internal(err, op, "failed to build request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(tokenHeader, c.cfg.StorefrontToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, domain.Gateway(err, op, "Shopify API unreachable")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, domain.Gateway(err, op, "failed to read Shopify response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domain.Gateway(nil, op, "Shopify API error: "+http.StatusText(resp.StatusCode))
	}

	var envelope Response[json.RawMessage]
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, domain.Gateway(err, op, "Unexpected response from Shopify")
	}
	if len(envelope.Errors) > 0 {
		return nil, domain.Gateway(nil, op, firstMessage(envelope.Errors))
	}
	if isNull(envelope.Data) {
		return nil, domain.Gateway(nil, op, "Shopify returned no data")
	}

	return envelope.Data, nil
}
