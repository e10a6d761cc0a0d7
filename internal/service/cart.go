package service

import (
	"context"
	"log/slog"
	"maps"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/dukerupert/plushies/internal/domain"
	"github.com/dukerupert/plushies/internal/shopify"
	"github.com/dukerupert/plushies/internal/telemetry"
)

// CartIDStore persists the visitor's cart ID between requests.
// cookie.CartStore and MemoryCartIDStore implement it.
type CartIDStore interface {
	Load() (string, bool)
	Save(id string) error
	Delete() error
}

// CartManager is the cart surface handlers depend on. *CartSession
// implements it.
type CartManager interface {
	EnsureCart(ctx context.Context) (*domain.Cart, error)
	Resume(ctx context.Context) (*domain.Cart, error)
	AddToCart(ctx context.Context, variantID string, quantity int) (*domain.Cart, error)
	UpdateCartItem(ctx context.Context, lineID string, quantity int) (*domain.Cart, error)
	RemoveFromCart(ctx context.Context, lineID string) (*domain.Cart, error)
	ClearCart(ctx context.Context) error
	State() CartState
}

var _ CartManager = (*CartSession)(nil)

// CartState is a point-in-time copy of a session's state.
type CartState struct {
	Cart    *domain.Cart
	Loading bool
	Err     error

	// Updating and Removing hold line IDs with a mutation in flight.
	Updating map[string]bool
	Removing map[string]bool

	// Edits holds the latest optimistic quantity edit per line. An edit
	// stays here after a rollback until the line is edited again.
	Edits map[string]*QuantityEdit
}

// Quantity returns the quantity to display for a line, preferring the
// line's optimistic edit over the snapshot.
func (s CartState) Quantity(lineID string) int {
	if e, ok := s.Edits[lineID]; ok {
		return e.Quantity()
	}
	if line := s.Cart.Line(lineID); line != nil {
		return line.Quantity
	}
	return 0
}

// CartSessions builds per-visitor sessions that share one gateway and one
// mutation sequencer.
type CartSessions struct {
	gateway   CartGateway
	sequencer *Sequencer
	logger    *slog.Logger
}

// NewCartSessions creates a session factory
func NewCartSessions(gateway CartGateway, logger *slog.Logger) *CartSessions {
	if logger == nil {
		logger = slog.Default()
	}
	return &CartSessions{
		gateway:   gateway,
		sequencer: NewSequencer(),
		logger:    logger,
	}
}

// Session returns a session bound to store.
func (f *CartSessions) Session(store CartIDStore) *CartSession {
	return &CartSession{
		gateway:   f.gateway,
		sequencer: f.sequencer,
		store:     store,
		logger:    f.logger,
		state: CartState{
			Updating: map[string]bool{},
			Removing: map[string]bool{},
			Edits:    map[string]*QuantityEdit{},
		},
	}
}

// SessionOpener opens the cart session backed by store.
type SessionOpener func(store CartIDStore) CartManager

// Opener returns Session as a SessionOpener.
func (f *CartSessions) Opener() SessionOpener {
	return func(store CartIDStore) CartManager {
		return f.Session(store)
	}
}

// CartSession owns one visitor's cart state. All mutations go through it;
// readers take a copy with State.
type CartSession struct {
	gateway   CartGateway
	sequencer *Sequencer
	store     CartIDStore
	logger    *slog.Logger

	ensure singleflight.Group

	mu    sync.Mutex
	state CartState
}

// State returns a copy of the current state.
func (s *CartSession) State() CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *CartSession) snapshotLocked() CartState {
	st := s.state
	st.Updating = maps.Clone(s.state.Updating)
	st.Removing = maps.Clone(s.state.Removing)
	st.Edits = make(map[string]*QuantityEdit, len(s.state.Edits))
	for id, e := range s.state.Edits {
		c := *e
		st.Edits[id] = &c
	}
	return st
}

// update applies fn to the state under the session lock.
func (s *CartSession) update(fn func(st *CartState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

func (s *CartSession) current() *domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Cart
}

func (s *CartSession) setCart(cart *domain.Cart) {
	s.update(func(st *CartState) {
		st.Cart = cart
		st.Err = nil
	})
	if telemetry.Business != nil && cart != nil {
		telemetry.Business.CartItemCount.Observe(float64(cart.TotalQuantity))
	}
}

func (s *CartSession) fail(action string, err error) error {
	s.update(func(st *CartState) { st.Err = err })
	telemetry.AddBreadcrumb("cart", action+" failed", map[string]interface{}{
		"code": domain.ErrorCode(err),
	})
	if telemetry.Business != nil {
		telemetry.Business.CartFailures.WithLabelValues(action, domain.ErrorCode(err)).Inc()
	}
	return err
}

// EnsureCart returns the session's cart, creating one only when no usable
// stored cart exists. A stored ID the platform no longer recognises is
// discarded and replaced. Concurrent calls share one fetch or create.
func (s *CartSession) EnsureCart(ctx context.Context) (*domain.Cart, error) {
	if cart := s.current(); cart != nil {
		return cart, nil
	}

	v, err, _ := s.ensure.Do("ensure", func() (any, error) {
		return s.ensureCart(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Cart), nil
}

func (s *CartSession) ensureCart(ctx context.Context) (*domain.Cart, error) {
	const op = "cart.ensure"

	if cart := s.current(); cart != nil {
		return cart, nil
	}

	reason := "new"
	if id, ok := s.store.Load(); ok {
		cart, err := s.gateway.GetCart(ctx, id)
		if err == nil {
			s.setCart(cart)
			return cart, nil
		}

		s.logger.WarnContext(ctx, "discarding stored cart", "cart_id", id, "error", err)
		s.discardStoredID(ctx)
		reason = "replaced"
	}

	cart, err := s.gateway.CreateCart(ctx)
	if err != nil {
		return nil, s.fail("create", err)
	}

	if err := s.store.Save(cart.ID); err != nil {
		return nil, s.fail("create", domain.Internal(err, op, "failed to persist cart"))
	}
	s.setCart(cart)

	if telemetry.Business != nil {
		telemetry.Business.CartCreated.WithLabelValues(reason).Inc()
	}
	s.logger.InfoContext(ctx, "cart created", "cart_id", cart.ID, "reason", reason)
	return cart, nil
}

func (s *CartSession) discardStoredID(ctx context.Context) {
	if err := s.store.Delete(); err != nil {
		s.logger.WarnContext(ctx, "failed to delete stored cart id", "error", err)
	}
	if telemetry.Business != nil {
		telemetry.Business.CartDiscarded.Inc()
	}
}

// Resume loads the cart for the stored ID without ever creating one.
// It returns (nil, nil) when there is no stored ID or the platform no
// longer has the cart, in which case the stored ID is discarded.
func (s *CartSession) Resume(ctx context.Context) (*domain.Cart, error) {
	if cart := s.current(); cart != nil {
		return cart, nil
	}

	id, ok := s.store.Load()
	if !ok {
		return nil, nil
	}

	s.update(func(st *CartState) { st.Loading = true })
	defer s.update(func(st *CartState) { st.Loading = false })

	cart, err := s.gateway.GetCart(ctx, id)
	if err != nil {
		s.logger.WarnContext(ctx, "stored cart could not be loaded", "cart_id", id, "error", err)
		s.discardStoredID(ctx)
		return nil, nil
	}

	s.setCart(cart)
	return cart, nil
}

// AddToCart adds quantity units of variantID, creating the cart if needed.
// The session is marked loading for the duration.
func (s *CartSession) AddToCart(ctx context.Context, variantID string, quantity int) (*domain.Cart, error) {
	variantID = strings.TrimSpace(variantID)
	if variantID == "" {
		return nil, s.fail("add", ErrMissingVariant)
	}
	if quantity < 1 {
		return nil, s.fail("add", ErrInvalidQuantity)
	}

	s.update(func(st *CartState) { st.Loading = true })
	defer s.update(func(st *CartState) { st.Loading = false })

	cart, err := s.EnsureCart(ctx)
	if err != nil {
		return nil, err
	}

	var updated *domain.Cart
	err = s.sequencer.Do(ctx, cart.ID, func(ctx context.Context) error {
		var err error
		updated, err = s.gateway.AddCartLines(ctx, cart.ID, []shopify.LineInput{
			{MerchandiseID: variantID, Quantity: quantity},
		})
		return err
	})
	if err != nil {
		return nil, s.fail("add", err)
	}

	s.setCart(updated)
	recordCartUpdate("add")
	return updated, nil
}

// UpdateCartItem sets a line's quantity. The new quantity is applied
// optimistically and rolled back if the platform rejects it.
// The line is marked updating; global loading is left untouched.
func (s *CartSession) UpdateCartItem(ctx context.Context, lineID string, quantity int) (*domain.Cart, error) {
	cartID, ok := s.store.Load()
	if !ok {
		return nil, s.fail("update", ErrNoCart)
	}
	if strings.TrimSpace(lineID) == "" {
		return nil, s.fail("update", ErrMissingLine)
	}
	if quantity < 1 {
		return nil, s.fail("update", ErrInvalidQuantity)
	}

	// A session opened for this request has no snapshot yet. Load it so a
	// rollback restores the line's real quantity. A failed load is not fatal
	// here; the mutation reports the error.
	if s.current() == nil {
		if cart, err := s.gateway.GetCart(ctx, cartID); err == nil {
			s.setCart(cart)
		}
	}

	var edit *QuantityEdit
	s.update(func(st *CartState) {
		previous := 0
		if e, exists := st.Edits[lineID]; exists {
			previous = e.Quantity()
		} else if line := st.Cart.Line(lineID); line != nil {
			previous = line.Quantity
		}
		// Without a known quantity there is nothing to show or restore.
		if previous >= 1 {
			edit = NewQuantityEdit(lineID, previous, quantity)
			st.Edits[lineID] = edit
		}
		st.Updating[lineID] = true
	})

	var updated *domain.Cart
	err := s.sequencer.Do(ctx, cartID, func(ctx context.Context) error {
		var err error
		updated, err = s.gateway.UpdateCartLines(ctx, cartID, []shopify.LineUpdate{
			{ID: lineID, Quantity: quantity},
		})
		return err
	})

	s.update(func(st *CartState) {
		latest := st.Edits[lineID] == edit
		if err != nil {
			st.Err = err
		} else {
			st.Cart = updated
			st.Err = nil
		}
		if edit != nil {
			if err != nil {
				_ = edit.Rollback(err)
			} else {
				_ = edit.Confirm()
			}
		}
		// A newer edit on the same line keeps its own markers. A rolled
		// back edit stays so readers can show the restored quantity.
		if latest {
			if err == nil {
				delete(st.Edits, lineID)
			}
			delete(st.Updating, lineID)
		}
	})

	if err != nil {
		if telemetry.Business != nil {
			telemetry.Business.CartFailures.WithLabelValues("update", domain.ErrorCode(err)).Inc()
		}
		return nil, err
	}
	recordCartUpdate("update")
	return updated, nil
}

// RemoveFromCart removes a line. The line is marked removing; global
// loading is left untouched.
func (s *CartSession) RemoveFromCart(ctx context.Context, lineID string) (*domain.Cart, error) {
	cartID, ok := s.store.Load()
	if !ok {
		return nil, s.fail("remove", ErrNoCart)
	}
	if strings.TrimSpace(lineID) == "" {
		return nil, s.fail("remove", ErrMissingLine)
	}

	s.update(func(st *CartState) { st.Removing[lineID] = true })

	var updated *domain.Cart
	err := s.sequencer.Do(ctx, cartID, func(ctx context.Context) error {
		var err error
		updated, err = s.gateway.RemoveCartLines(ctx, cartID, []string{lineID})
		return err
	})

	s.update(func(st *CartState) {
		delete(st.Removing, lineID)
		if err != nil {
			st.Err = err
			return
		}
		delete(st.Edits, lineID)
		st.Cart = updated
		st.Err = nil
	})

	if err != nil {
		if telemetry.Business != nil {
			telemetry.Business.CartFailures.WithLabelValues("remove", domain.ErrorCode(err)).Inc()
		}
		return nil, err
	}
	recordCartUpdate("remove")
	return updated, nil
}

// ClearCart forgets the stored cart ID and resets the session. The cart
// itself is left on the platform.
func (s *CartSession) ClearCart(ctx context.Context) error {
	const op = "cart.clear"

	if err := s.store.Delete(); err != nil {
		return s.fail("clear", domain.Internal(err, op, "failed to clear cart"))
	}

	s.update(func(st *CartState) {
		st.Cart = nil
		st.Err = nil
		st.Loading = false
		clear(st.Updating)
		clear(st.Removing)
		clear(st.Edits)
	})

	if telemetry.Business != nil {
		telemetry.Business.CartCleared.Inc()
	}
	s.logger.InfoContext(ctx, "cart cleared")
	return nil
}

func recordCartUpdate(action string) {
	if telemetry.Business != nil {
		telemetry.Business.CartUpdated.WithLabelValues(action).Inc()
	}
}
