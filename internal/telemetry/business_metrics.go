package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for storefront funnel and
// commerce gateway observability.
type BusinessMetrics struct {
	// Product engagement
	ProductViews     *prometheus.CounterVec
	ProductAddToCart *prometheus.CounterVec
	ProductSearches  *prometheus.CounterVec

	// Cart
	CartCreated   *prometheus.CounterVec
	CartUpdated   *prometheus.CounterVec
	CartCleared   prometheus.Counter
	CartDiscarded prometheus.Counter
	CartFailures  *prometheus.CounterVec
	CartItemCount prometheus.Histogram

	// Checkout hand-off
	CheckoutRedirects prometheus.Counter

	// Search
	SearchSuperseded prometheus.Counter

	// Commerce gateway
	GatewayLatency  *prometheus.HistogramVec
	GatewayErrors   *prometheus.CounterVec
	GatewayCacheHit *prometheus.CounterVec
}

// NewBusinessMetrics creates and registers all business metrics
func NewBusinessMetrics(namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "plushies"
	}

	subsystem := "business"

	m := &BusinessMetrics{
		// =======================================================================
		// Product Engagement
		// =======================================================================
		ProductViews: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "product_views_total",
				Help:      "Total product detail page views",
			},
			[]string{"product_handle"},
		),
		ProductAddToCart: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "product_add_to_cart_total",
				Help:      "Total add to cart actions",
			},
			[]string{"source"}, // source: page, api
		),
		ProductSearches: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "product_searches_total",
				Help:      "Total product searches",
			},
			[]string{"outcome"}, // outcome: results, empty, too_short, error
		),

		// =======================================================================
		// Cart
		// =======================================================================
		CartCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_created_total",
				Help:      "Total carts created on the commerce platform",
			},
			[]string{"reason"}, // reason: new, replaced
		),
		CartUpdated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_updated_total",
				Help:      "Total successful cart mutations",
			},
			[]string{"action"}, // action: add, update, remove
		),
		CartCleared: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_cleared_total",
				Help:      "Total carts forgotten by the visitor",
			},
		),
		CartDiscarded: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_discarded_total",
				Help:      "Total stored cart IDs discarded after a failed fetch",
			},
		),
		CartFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_failures_total",
				Help:      "Total cart operations that failed",
			},
			[]string{"action", "code"},
		),
		CartItemCount: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_item_count",
				Help:      "Total quantity in the cart after each mutation",
				Buckets:   []float64{1, 2, 3, 5, 10, 20, 50},
			},
		),

		CheckoutRedirects: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_redirects_total",
				Help:      "Total hand-offs to the hosted checkout",
			},
		),

		SearchSuperseded: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "search_superseded_total",
				Help:      "Total searches cancelled by a newer query",
			},
		),

		// =======================================================================
		// Commerce Gateway
		// =======================================================================
		GatewayLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "request_duration_seconds",
				Help:      "Storefront API call duration (separates app slowness from platform issues)",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"operation"},
		),
		GatewayErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "errors_total",
				Help:      "Total failed Storefront API calls",
			},
			[]string{"operation", "code"},
		),
		GatewayCacheHit: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "cache_hits_total",
				Help:      "Total catalog reads served from the response cache",
			},
			[]string{"operation"},
		),
	}

	return m
}

// Global instance for easy access from handlers
var Business *BusinessMetrics

// InitBusinessMetrics initializes the global business metrics instance
func InitBusinessMetrics(namespace string) *BusinessMetrics {
	Business = NewBusinessMetrics(namespace)
	return Business
}
