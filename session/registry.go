// Package session bundles the cart, wishlist and checkout of one
// storefront session and creates them on first use.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"laptopshop/cart"
	"laptopshop/checkout"
	"laptopshop/events"
	"laptopshop/models"
	"laptopshop/orders"
	"laptopshop/state"
	"laptopshop/wishlist"
)

var ErrInvalidID = errors.New("invalid session id")

// Users reports the shopper signed in to a session.
type Users interface {
	Current(sessionID string) (models.User, bool)
}

type Session struct {
	ID       string
	Cart     *cart.Cart
	Wishlist *wishlist.Wishlist
	Checkout *checkout.Flow

	lastSeen time.Time
}

type Options struct {
	Store        state.Store
	Users        Users
	Processor    checkout.PaymentProcessor
	Orders       orders.Recorder
	ConfirmDelay time.Duration
	CartEvents   *events.Bus[cart.Event]
	WishEvents   *events.Bus[wishlist.Event]
	// IdleTimeout evicts sessions untouched for longer. Zero keeps them.
	IdleTimeout  time.Duration
}

type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	opts     Options
	now      func() time.Time
}

func NewRegistry(opts Options) *Registry {
	if opts.Store == nil {
		opts.Store = state.NewMemoryStore()
	}
	return &Registry{sessions: make(map[string]*Session), opts: opts, now: time.Now}
}

// NewID returns a fresh session id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id has the shape NewID produces.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Get returns the session for id, creating it if needed.
func (r *Registry) Get(id string) (*Session, error) {
	if !ValidID(id) {
		return nil, ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		s.lastSeen = r.now()
		return s, nil
	}
	s := &Session{
		ID:       id,
		Cart:     cart.New(r.opts.Store, state.Key(id, "cart"), r.opts.CartEvents),
		Wishlist: wishlist.New(r.opts.Store, state.Key(id, "wishlist"), r.opts.WishEvents),
		lastSeen: r.now(),
	}
	s.Checkout = checkout.NewFlow(r.opts.Processor, r.completer(s), func() checkout.Prefill {
		return r.prefill(id)
	})
	r.sessions[id] = s
	return s, nil
}

// Lookup returns the session for id without creating one.
func (r *Registry) Lookup(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if ok {
		s.lastSeen = r.now()
	}
	return s, ok
}

// Sweep evicts sessions idle for longer than IdleTimeout together with
// their saved cart and wishlist. Sessions with a payment in flight or an
// order awaiting completion are kept.
func (r *Registry) Sweep() int {
	if r.opts.IdleTimeout <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.opts.IdleTimeout)
	evicted := 0
	for id, s := range r.sessions {
		if s.lastSeen.After(cutoff) {
			continue
		}
		if st := s.Checkout.State(); st == checkout.StateProcessing || st == checkout.StateConfirmed {
			continue
		}
		delete(r.sessions, id)
		for _, name := range []string{"cart", "wishlist"} {
			if err := r.opts.Store.Delete(state.Key(id, name)); err != nil {
				log.Warnw("session state not removed", "session", id, "key", name, "error", err)
			}
		}
		evicted++
	}
	return evicted
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				log.Infow("idle sessions evicted", "count", n, "live", r.Len())
			}
		}
	}
}

// Len is the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// StartCheckout snapshots the session cart into its checkout flow.
func (r *Registry) StartCheckout(s *Session) error {
	items := s.Cart.Items()
	return s.Checkout.Start(items, cart.Total(items))
}

// ScheduleCompletion completes a confirmed checkout after the configured
// delay. Completing it earlier through the API makes this a no-op.
func (r *Registry) ScheduleCompletion(s *Session) {
	time.AfterFunc(r.opts.ConfirmDelay, func() {
		err := s.Checkout.Complete(context.Background())
		if err != nil && !errors.Is(err, checkout.ErrInvalidTransition) {
			log.Errorw("checkout completion failed", "session", s.ID, "error", err)
		}
	})
}

// prefill is the signed-in shopper's name and email, if any.
func (r *Registry) prefill(id string) checkout.Prefill {
	u, ok := r.current(id)
	if !ok {
		return checkout.Prefill{}
	}
	return checkout.Prefill{FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
}

func (r *Registry) current(id string) (models.User, bool) {
	if r.opts.Users == nil {
		return models.User{}, false
	}
	return r.opts.Users.Current(id)
}

// completer clears the cart and records the order once checkout is done.
// A failed order write is logged; the shopper has already paid.
func (r *Registry) completer(s *Session) func(context.Context, checkout.Completed) error {
	return func(ctx context.Context, done checkout.Completed) error {
		if err := s.Cart.Clear(); err != nil {
			return err
		}
		if r.opts.Orders == nil {
			return nil
		}
		var userID *int
		if u, ok := r.current(s.ID); ok {
			id := u.ID
			userID = &id
		}
		o := orders.New(userID, done.Total, done.Details.ShippingAddress(), done.Payment.Label(), done.Items)
		saved, err := r.opts.Orders.Record(ctx, o)
		if err != nil {
			log.Errorw("order not recorded", "session", s.ID, "receipt", done.Receipt.ID, "error", err)
			return nil
		}
		log.Infow("order recorded", "order", saved.ID, "total", saved.TotalAmount.String(), "receipt", done.Receipt.ID)
		return nil
	}
}
