// Package state holds per-session values (cart, wishlist, signed-in user)
// under string keys, the server-side stand-in for browser storage.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

var ErrCorrupt = errors.New("state: stored value is not valid")

type Store interface {
	// Load decodes the value under key into v and reports whether it existed.
	Load(key string, v any) (bool, error)
	Save(key string, v any) error
	Delete(key string) error
}

// MemoryStore keeps JSON snapshots in a map, so loaded values never alias
// the caller's data.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Load(key string, v any) (bool, error) {
	m.mu.RLock()
	raw, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return true, nil
}

func (m *MemoryStore) Save(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("state: encode %s: %w", key, err)
	}
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// SaveRaw stores bytes as-is. Used to seed or simulate damaged state.
func (m *MemoryStore) SaveRaw(key string, raw []byte) {
	m.mu.Lock()
	m.data[key] = append([]byte(nil), raw...)
	m.mu.Unlock()
}

// Key joins a session id and a state name.
func Key(sessionID, name string) string {
	return sessionID + ":" + name
}
