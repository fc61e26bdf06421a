// Package cart manages the items a session has selected for purchase.
package cart

import (
	"errors"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"laptopshop/events"
	"laptopshop/models"
	"laptopshop/state"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrNotInCart       = errors.New("item not in cart")
	ErrOutOfStock      = errors.New("laptop is out of stock")
)

// Event is published after every cart mutation with the resulting items.
type Event struct {
	Key   string
	Items []models.CartItem
}

// Cart keeps at most one line per laptop. Mutations are saved to the state
// store and published before they return; subscribers run while the cart
// is locked and must not call back into it.
type Cart struct {
	mu    sync.Mutex
	items []models.CartItem
	store state.Store
	key   string
	bus   *events.Bus[Event]
}

// New loads the cart saved under key. Unreadable state starts an empty cart.
func New(store state.Store, key string, bus *events.Bus[Event]) *Cart {
	c := &Cart{store: store, key: key, bus: bus}
	var items []models.CartItem
	if ok, err := store.Load(key, &items); ok && err == nil {
		c.items = items
	}
	return c
}

// Add increments the quantity of an existing line or appends a new one.
func (c *Cart) Add(item models.CartItem, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.copyItems()
	if i := indexOf(next, item.LaptopID); i >= 0 {
		next[i].Quantity += qty
	} else {
		item.Quantity = qty
		next = append(next, item)
	}
	return c.commit(next)
}

// AddLaptop adds qty units of l with its current catalog details.
func (c *Cart) AddLaptop(l models.Laptop, qty int) error {
	if !l.InStock {
		return ErrOutOfStock
	}
	return c.Add(models.CartItemFromLaptop(l), qty)
}

func (c *Cart) Remove(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := indexOf(c.items, id)
	if i < 0 {
		return ErrNotInCart
	}
	next := c.copyItems()
	next = append(next[:i], next[i+1:]...)
	return c.commit(next)
}

// SetQuantity replaces the quantity of a line; qty <= 0 removes it.
func (c *Cart) SetQuantity(id, qty int) error {
	if qty <= 0 {
		return c.Remove(id)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	i := indexOf(c.items, id)
	if i < 0 {
		return ErrNotInCart
	}
	next := c.copyItems()
	next[i].Quantity = qty
	return c.commit(next)
}

func (c *Cart) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commit([]models.CartItem{})
}

func (c *Cart) Items() []models.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyItems()
}

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Total(c.items)
}

// Total sums price times quantity over items.
func Total(items []models.CartItem) int64 {
	var total int64
	for _, it := range items {
		total += ParsePrice(it.Price) * int64(it.Quantity)
	}
	return total
}

// ParsePrice keeps only the digits of a display price, so "ZMW 18,500"
// is 18500. Currency symbols and separators are discarded, not converted.
func ParsePrice(price string) int64 {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r <= unicode.MaxASCII {
			return r
		}
		return -1
	}, price)
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// commit must be called with mu held.
func (c *Cart) commit(next []models.CartItem) error {
	if err := c.store.Save(c.key, next); err != nil {
		return err
	}
	c.items = next
	c.bus.Publish(Event{Key: c.key, Items: c.copyItems()})
	return nil
}

func (c *Cart) copyItems() []models.CartItem {
	out := make([]models.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

func indexOf(items []models.CartItem, id int) int {
	for i, it := range items {
		if it.LaptopID == id {
			return i
		}
	}
	return -1
}
