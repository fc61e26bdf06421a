// Package events is a small typed publish/subscribe bus used to notify
// interested components when session or catalog state changes.
package events

import "sync"

type Handler[T any] func(T)

// Bus delivers every published value to all current subscribers,
// synchronously and in subscription order.
type Bus[T any] struct {
	mu     sync.RWMutex
	nextID int
	subs   []subscription[T]
}

type subscription[T any] struct {
	id int
	fn Handler[T]
}

func NewBus[T any]() *Bus[T] {
	return &Bus[T]{}
}

// Subscribe registers fn and returns a function that removes it.
func (b *Bus[T]) Subscribe(fn Handler[T]) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription[T]{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish calls every subscriber with v before returning. A nil bus is a
// no-op so components can run without observers.
func (b *Bus[T]) Publish(v T) {
	if b == nil {
		return
	}
	b.mu.RLock()
	subs := make([]subscription[T], len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		s.fn(v)
	}
}

func (b *Bus[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
