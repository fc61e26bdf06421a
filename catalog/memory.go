package catalog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"laptopshop/models"
	"laptopshop/state"
)

const snapshotKey = "catalog"

// MemoryStore keeps the catalog in process and mirrors every write to a
// state.Store snapshot.
type MemoryStore struct {
	mu      sync.RWMutex
	laptops map[int]models.Laptop
	nextID  int
	state   state.Store
	now     func() time.Time
}

type snapshot struct {
	NextID  int             `json:"next_id"`
	Laptops []models.Laptop `json:"laptops"`
}

// NewMemoryStore restores the last snapshot from st. When there is none, or
// it cannot be read, the store starts from seed.
func NewMemoryStore(st state.Store, seed []models.LaptopInput) *MemoryStore {
	m := &MemoryStore{
		laptops: make(map[int]models.Laptop),
		state:   st,
		now:     time.Now,
	}

	var snap snapshot
	ok, err := st.Load(snapshotKey, &snap)
	switch {
	case err != nil:
		log.Warnw("catalog snapshot unreadable, using default catalog", "error", err)
	case ok:
		for _, l := range snap.Laptops {
			m.laptops[l.ID] = l
		}
		m.nextID = snap.NextID
		return m
	}

	for _, in := range seed {
		m.nextID++
		l := NewLaptop(in, m.now())
		l.ID = m.nextID
		m.laptops[l.ID] = l
	}
	if err := m.persist(); err != nil {
		log.Warnw("catalog snapshot not saved", "error", err)
	}
	return m
}

// List returns laptops newest first.
func (m *MemoryStore) List(ctx context.Context) ([]models.Laptop, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sorted(), nil
}

func (m *MemoryStore) Get(ctx context.Context, id int) (models.Laptop, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.laptops[id]
	if !ok {
		return models.Laptop{}, ErrNotFound
	}
	return clone(l), nil
}

func (m *MemoryStore) Create(ctx context.Context, in models.LaptopInput) (models.Laptop, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	l := NewLaptop(in, m.now())
	l.ID = m.nextID
	m.laptops[l.ID] = l
	if err := m.persist(); err != nil {
		delete(m.laptops, l.ID)
		m.nextID--
		return models.Laptop{}, err
	}
	return clone(l), nil
}

func (m *MemoryStore) Update(ctx context.Context, id int, p models.LaptopPatch) (models.Laptop, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.laptops[id]
	if !ok {
		return models.Laptop{}, ErrNotFound
	}
	l := clone(prev)
	p.Apply(&l)
	l.UpdatedAt = m.now()
	m.laptops[id] = l
	if err := m.persist(); err != nil {
		m.laptops[id] = prev
		return models.Laptop{}, err
	}
	return clone(l), nil
}

func (m *MemoryStore) Delete(ctx context.Context, id int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.laptops[id]
	if !ok {
		return false, nil
	}
	delete(m.laptops, id)
	if err := m.persist(); err != nil {
		m.laptops[id] = prev
		return false, err
	}
	return true, nil
}

func (m *MemoryStore) sorted() []models.Laptop {
	out := make([]models.Laptop, 0, len(m.laptops))
	for _, l := range m.laptops {
		out = append(out, clone(l))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// persist must be called with mu held.
func (m *MemoryStore) persist() error {
	return m.state.Save(snapshotKey, snapshot{NextID: m.nextID, Laptops: m.sorted()})
}

func clone(l models.Laptop) models.Laptop {
	l.Images = append([]string{}, l.Images...)
	l.Specs = append([]string{}, l.Specs...)
	return l
}
