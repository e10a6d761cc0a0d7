package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// ShopifyImageCDN serves every product and variant image the storefront renders.
const ShopifyImageCDN = "https://cdn.shopify.com"

// SecurityHeadersConfig configures the response headers set on every page.
type SecurityHeadersConfig struct {
	// ContentSecurityPolicy is sent verbatim when non-empty.
	ContentSecurityPolicy string

	FrameOptions       string
	ContentTypeNosniff bool
	ReferrerPolicy     string
	PermissionsPolicy  string

	// HSTSMaxAge is in seconds. Zero disables Strict-Transport-Security,
	// which is what local development over plain HTTP wants.
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
}

// DefaultSecurityHeadersConfig returns the storefront's headers. The pages
// load no scripts, take images only from the Shopify CDN and may hand a
// visitor to the hosted checkout, so checkoutOrigins (for example
// "https://plushies.myshopify.com") are added to form-action.
func DefaultSecurityHeadersConfig(checkoutOrigins ...string) SecurityHeadersConfig {
	return SecurityHeadersConfig{
		ContentSecurityPolicy: StorefrontCSP(checkoutOrigins...),
		FrameOptions:          "DENY",
		ContentTypeNosniff:    true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		PermissionsPolicy:     "camera=(), microphone=(), geolocation=(), payment=()",
		HSTSMaxAge:            31536000, // 1 year
		HSTSIncludeSubdomains: true,
	}
}

// StorefrontCSP builds the Content-Security-Policy for the storefront pages.
// Blank origins are skipped.
func StorefrontCSP(checkoutOrigins ...string) string {
	formAction := []string{"'self'"}
	for _, origin := range checkoutOrigins {
		origin = strings.TrimSuffix(strings.TrimSpace(origin), "/")
		if origin != "" {
			formAction = append(formAction, origin)
		}
	}

	directives := []string{
		"default-src 'self'",
		"script-src 'self'",
		"style-src 'self' 'unsafe-inline'",
		"img-src 'self' data: " + ShopifyImageCDN,
		"font-src 'self'",
		"connect-src 'self'",
		"frame-ancestors 'none'",
		"base-uri 'self'",
		"form-action " + strings.Join(formAction, " "),
	}
	return strings.Join(directives, "; ")
}

// CheckoutOrigins returns the origins a cart's checkoutUrl can point at for
// the given store domain: the store's own host and the myshopify.com hosts
// Shopify falls back to.
func CheckoutOrigins(storeDomain string) []string {
	origins := []string{"https://*.myshopify.com"}
	host := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(storeDomain), "https://"), "/")
	if host != "" && !strings.HasSuffix(host, ".myshopify.com") {
		origins = append([]string{"https://" + host}, origins...)
	}
	return origins
}

// SecurityHeaders sets the configured headers before calling next.
func SecurityHeaders(config SecurityHeadersConfig) func(http.Handler) http.Handler {
	var hsts string
	if config.HSTSMaxAge > 0 {
		hsts = "max-age=" + strconv.Itoa(config.HSTSMaxAge)
		if config.HSTSIncludeSubdomains {
			hsts += "; includeSubDomains"
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			setIf(h, "X-Frame-Options", config.FrameOptions)
			if config.ContentTypeNosniff {
				h.Set("X-Content-Type-Options", "nosniff")
			}
			setIf(h, "Referrer-Policy", config.ReferrerPolicy)
			setIf(h, "Content-Security-Policy", config.ContentSecurityPolicy)
			setIf(h, "Permissions-Policy", config.PermissionsPolicy)
			setIf(h, "Strict-Transport-Security", hsts)

			next.ServeHTTP(w, r)
		})
	}
}

func setIf(h http.Header, key, value string) {
	if value != "" {
		h.Set(key, value)
	}
}
