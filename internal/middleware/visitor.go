package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dukerupert/plushies/internal/cookie"
	"github.com/dukerupert/plushies/internal/domain"
)

// Visitor assigns every browser an anonymous, long-lived visitor ID and stores
// it in the request context. The ID carries no personal data; it keys
// per-browser work such as superseding in-flight searches.
func Visitor(cfg *cookie.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(cookie.Get(r, cookie.VisitorCookieName))
			if err != nil || id == uuid.Nil {
				id = uuid.New()
				cfg.SetSession(w, cookie.VisitorCookieName, id.String(), cookie.VisitorMaxAge)
			}

			ctx := domain.NewContextWithVisitor(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
