// Package cookie provides the storefront's cookie helpers. The cart session
// identifier, the anonymous visitor ID, flash messages and the CSRF token all
// live in cookies written through this package so scoping stays consistent.
package cookie

import (
	"net/http"
	"net/url"
)

// Config holds cookie configuration shared by every cookie the storefront sets.
type Config struct {
	// Domain scopes cookies to a parent domain (e.g., "plushies.shop").
	// Leave empty for host-only cookies.
	Domain string

	// Secure determines whether cookies require HTTPS.
	// Should be true in production, false in development.
	Secure bool
}

// NewConfig creates a new cookie configuration.
//
// Example:
//
//	cfg := cookie.NewConfig("plushies.shop", true) // production
//	cfg := cookie.NewConfig("", false)             // development, host-only
func NewConfig(domain string, secure bool) *Config {
	return &Config{
		Domain: domain,
		Secure: secure,
	}
}

// SetSession sets an HttpOnly cookie on path "/" with SameSite=Lax.
// A maxAge of 0 makes it a browser-session cookie.
func (c *Config) SetSession(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, c.build(name, value, maxAge, true))
}

// SetReadable sets a cookie that client-side scripts may read, such as the
// CSRF token used by fetch() calls.
func (c *Config) SetReadable(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, c.build(name, value, maxAge, false))
}

// ClearSession removes a cookie by setting MaxAge to -1.
// Domain and Path match the values used when it was set.
func (c *Config) ClearSession(w http.ResponseWriter, name string) {
	http.SetCookie(w, c.build(name, "", -1, true))
}

func (c *Config) build(name, value string, maxAge int, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Domain:   c.Domain,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Get retrieves a cookie value from the request.
// Returns empty string if cookie not found.
func Get(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetFlash stores a one-shot message shown on the next page render.
func (c *Config) SetFlash(w http.ResponseWriter, message string) {
	c.SetSession(w, FlashCookieName, url.QueryEscape(message), 60)
}

// PopFlash returns the pending flash message and clears it.
func (c *Config) PopFlash(w http.ResponseWriter, r *http.Request) string {
	raw := Get(r, FlashCookieName)
	if raw == "" {
		return ""
	}
	c.ClearSession(w, FlashCookieName)
	message, err := url.QueryUnescape(raw)
	if err != nil {
		return ""
	}
	return message
}

// Common cookie names used throughout the application.
const (
	// CartCookieName stores the commerce platform's cart ID for the visitor.
	CartCookieName = "plushies_cart"

	// VisitorCookieName stores an anonymous visitor ID used to scope search.
	VisitorCookieName = "plushies_visitor"

	// CSRFCookieName stores the CSRF token for form protection.
	CSRFCookieName = "plushies_csrf"

	// FlashCookieName stores flash messages between redirects.
	FlashCookieName = "plushies_flash"
)

// Cookie lifetimes in seconds.
const (
	CartMaxAge    = 30 * 24 * 60 * 60
	VisitorMaxAge = 365 * 24 * 60 * 60
	CSRFMaxAge    = 24 * 60 * 60
)
