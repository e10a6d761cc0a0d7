package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/plushies/internal"
	"github.com/dukerupert/plushies/internal/cookie"
	"github.com/dukerupert/plushies/internal/handler"
	"github.com/dukerupert/plushies/internal/handler/api"
	"github.com/dukerupert/plushies/internal/handler/storefront"
	"github.com/dukerupert/plushies/internal/middleware"
	"github.com/dukerupert/plushies/internal/router"
	"github.com/dukerupert/plushies/internal/routes"
	"github.com/dukerupert/plushies/internal/service"
	"github.com/dukerupert/plushies/internal/shopify"
	"github.com/dukerupert/plushies/internal/telemetry"
)

const shutdownTimeout = 15 * time.Second

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize Sentry error tracking
	sentryCleanup, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:              cfg.Sentry.DSN,
		Enabled:          cfg.Sentry.Enabled,
		Environment:      cfg.Sentry.Environment,
		Release:          cfg.Sentry.Release,
		SampleRate:       cfg.Sentry.SampleRate,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
		Debug:            cfg.Sentry.Debug,
	}, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer sentryCleanup()

	// Initialize metrics
	telemetry.InitBusinessMetrics("plushies")
	metrics := middleware.NewMetrics("plushies")

	// Shopify Storefront API client. Missing credentials are reported per
	// call so the server still starts and /api/test-shopify can explain.
	client := shopify.New(shopify.Config{
		StoreDomain:     cfg.Shopify.StoreDomain,
		StorefrontToken: cfg.Shopify.StorefrontToken,
		APIVersion:      cfg.Shopify.APIVersion,
		CacheTTL:        cfg.Shopify.CacheTTL,
		Timeout:         cfg.Shopify.Timeout,
		Logger:          logger,
	})
	logger.Info("Shopify client configured",
		"configured", client.Configured(),
		"api_version", cfg.Shopify.APIVersion,
		"cache_ttl", cfg.Shopify.CacheTTL,
	)

	// Initialize services
	productService := service.NewProductService(client, cfg.Search.Limit, logger)
	cartSessions := service.NewCartSessions(client, logger)
	searcher := service.NewSearcher(productService, cfg.Search.Debounce)

	// Load templates with renderer
	renderer, err := handler.NewRenderer(handler.Templates(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}

	cookieConfig := cookie.NewConfig(cfg.Cookie.Domain, cfg.Cookie.Secure)

	// ==========================================================================
	// Build route dependencies
	// ==========================================================================

	storefrontDeps := routes.StorefrontDeps{
		HomeHandler:          storefront.NewHomeHandler(productService, renderer, cookieConfig),
		ProductListHandler:   storefront.NewProductListHandler(productService, renderer, cookieConfig),
		ProductDetailHandler: storefront.NewProductDetailHandler(productService, renderer, cookieConfig),
		SearchHandler:        storefront.NewSearchHandler(productService, renderer, cookieConfig),
		CartHandler:          storefront.NewCartHandler(cartSessions.Opener(), cookieConfig, renderer),
	}

	apiRateLimiter := middleware.NewRateLimiter(middleware.StrictRateLimiterConfig())
	defer apiRateLimiter.Stop()

	apiDeps := routes.APIDeps{
		CartHandler:   api.NewCartHandler(cartSessions.Opener()),
		SearchHandler: api.NewSearchHandler(searcher),
		DebugHandler:  api.NewDebugHandler(client),
		Middleware: []router.Middleware{
			router.CORS(cfg.CORSOrigins),
			apiRateLimiter.Middleware,
			middleware.MaxBodySize(middleware.SmallMaxBodySize),
			middleware.Timeout(middleware.ShortTimeout),
		},
	}

	// ==========================================================================
	// Initialize middleware
	// ==========================================================================

	securityConfig := middleware.DefaultSecurityHeadersConfig(middleware.CheckoutOrigins(cfg.Shopify.StoreDomain)...)
	if cfg.Env != "prod" {
		securityConfig.HSTSMaxAge = 0 // Disable HSTS in development
	}

	csrfConfig := middleware.DefaultCSRFConfig(cookieConfig)

	defaultRateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	defer defaultRateLimiter.Stop()

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		middleware.WithClientIP(),
		middleware.Visitor(cookieConfig),
		middleware.WithRequestLogger(logger),
		router.Logger(logger),
		metrics.Middleware,
		telemetry.SentryMiddleware(),
		middleware.SecurityHeaders(securityConfig),
		defaultRateLimiter.Middleware,
		middleware.MaxBodySize(middleware.DefaultMaxBodySize),
		middleware.Timeout(middleware.DefaultTimeout),
		middleware.CSRF(csrfConfig),
	)

	// Static files
	r.Static("/static", handler.Static())

	// Metrics endpoint (should be protected in production via firewall)
	r.Get("/metrics", metrics.Handler().ServeHTTP)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	routes.RegisterStorefrontRoutes(r, storefrontDeps)
	routes.RegisterAPIRoutes(r, apiDeps)
	r.NotFound(storefront.NotFound(renderer))

	// ==========================================================================
	// Start server
	// ==========================================================================

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting storefront server", "address", srv.Addr, "env", cfg.Env, "base_url", cfg.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
