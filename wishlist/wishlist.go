// Package wishlist manages the laptops a session has saved for later, and
// the account-level wishlist of signed-in users.
package wishlist

import (
	"context"
	"errors"
	"sync"
	"time"

	"laptopshop/events"
	"laptopshop/models"
	"laptopshop/state"
)

var (
	ErrAlreadySaved = errors.New("already in wishlist")
	ErrNotSaved     = errors.New("not in wishlist")
)

type Event struct {
	Key   string
	Items []models.WishlistItem
}

// Adder is the part of a cart that MoveToCart needs.
type Adder interface {
	AddLaptop(l models.Laptop, qty int) error
}

// Getter reads the current catalog entry of a laptop.
type Getter interface {
	Get(ctx context.Context, id int) (models.Laptop, error)
}

// Wishlist holds at most one entry per laptop, in insertion order.
type Wishlist struct {
	mu    sync.Mutex
	items []models.WishlistItem
	store state.Store
	key   string
	bus   *events.Bus[Event]
	now   func() time.Time
}

func New(store state.Store, key string, bus *events.Bus[Event]) *Wishlist {
	w := &Wishlist{store: store, key: key, bus: bus, now: time.Now}
	var items []models.WishlistItem
	if ok, err := store.Load(key, &items); ok && err == nil {
		w.items = items
	}
	return w
}

// Add saves item with the current time. An existing entry is left
// untouched, including its DateAdded, and ErrAlreadySaved is returned.
func (w *Wishlist) Add(item models.WishlistItem) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if indexOf(w.items, item.LaptopID) >= 0 {
		return ErrAlreadySaved
	}
	item.DateAdded = w.now()
	next := append(w.copyItems(), item)
	return w.commit(next)
}

func (w *Wishlist) Remove(id int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	i := indexOf(w.items, id)
	if i < 0 {
		return ErrNotSaved
	}
	next := w.copyItems()
	next = append(next[:i], next[i+1:]...)
	return w.commit(next)
}

func (w *Wishlist) Contains(id int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return indexOf(w.items, id) >= 0
}

func (w *Wishlist) List() []models.WishlistItem {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.copyItems()
}

// MoveToCart adds one unit of a saved laptop to c, as the catalog has it
// now. The entry stays saved.
func (w *Wishlist) MoveToCart(ctx context.Context, id int, laptops Getter, c Adder) error {
	if !w.Contains(id) {
		return ErrNotSaved
	}
	l, err := laptops.Get(ctx, id)
	if err != nil {
		return err
	}
	return c.AddLaptop(l, 1)
}

func (w *Wishlist) commit(next []models.WishlistItem) error {
	if err := w.store.Save(w.key, next); err != nil {
		return err
	}
	w.items = next
	w.bus.Publish(Event{Key: w.key, Items: w.copyItems()})
	return nil
}

func (w *Wishlist) copyItems() []models.WishlistItem {
	out := make([]models.WishlistItem, len(w.items))
	copy(out, w.items)
	return out
}

func indexOf(items []models.WishlistItem, id int) int {
	for i, it := range items {
		if it.LaptopID == id {
			return i
		}
	}
	return -1
}
