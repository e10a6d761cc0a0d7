package cookie

import (
	"net/http"
	"net/url"
	"sync"
)

// CartStore persists the cart session identifier in the visitor's cookie jar.
// Writes made during a request are visible to later reads in the same
// request, so a cart created mid-request is found again before the browser
// has echoed the cookie back.
type CartStore struct {
	cfg *Config
	w   http.ResponseWriter
	r   *http.Request

	mu       sync.Mutex
	override bool
	id       string
}

// CartStore returns the cart ID store for one request.
func (c *Config) CartStore(w http.ResponseWriter, r *http.Request) *CartStore {
	return &CartStore{cfg: c, w: w, r: r}
}

// Load returns the stored cart ID, if any.
func (s *CartStore) Load() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.override {
		return s.id, s.id != ""
	}

	raw := Get(s.r, CartCookieName)
	if raw == "" {
		return "", false
	}
	id, err := url.QueryUnescape(raw)
	if err != nil || id == "" {
		return "", false
	}
	return id, true
}

// Save writes the cart ID cookie.
func (s *CartStore) Save(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg.SetSession(s.w, CartCookieName, url.QueryEscape(id), CartMaxAge)
	s.override = true
	s.id = id
	return nil
}

// Delete removes the cart ID cookie.
func (s *CartStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg.ClearSession(s.w, CartCookieName)
	s.override = true
	s.id = ""
	return nil
}
