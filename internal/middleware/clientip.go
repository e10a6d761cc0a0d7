package middleware

import (
	"context"
	"net/http"
)

const (
	// ClientIPContextKey is the context key for the resolved client address
	ClientIPContextKey contextKey = "client_ip"
)

// WithClientIP resolves the client address once (see GetClientIP) and stores
// it in the context for request logging. Proxy headers are trusted, so the
// server must only be reachable through the reverse proxy.
func WithClientIP() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), ClientIPContextKey, GetClientIP(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClientIPFromContext returns the address stored by WithClientIP, or "".
func GetClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(ClientIPContextKey).(string)
	return ip
}
