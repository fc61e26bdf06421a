package wishlist

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"laptopshop/catalog"
	"laptopshop/condb"
	"laptopshop/models"
)

// Repo stores the wishlists of signed-in users.
type Repo interface {
	// Add is a no-op when the laptop is already saved.
	Add(ctx context.Context, userID, laptopID int) error
	Remove(ctx context.Context, userID, laptopID int) (bool, error)
	// List returns saved laptops, most recently saved first.
	List(ctx context.Context, userID int) ([]models.Laptop, error)
}

type PostgresRepo struct {
	db condb.DB
}

func NewPostgresRepo(db condb.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Add(ctx context.Context, userID, laptopID int) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO wishlist (user_id, laptop_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, laptop_id) DO NOTHING`,
		userID, laptopID,
	)
	if condb.IsForeignKeyViolation(err) {
		return catalog.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("add to wishlist: %w", err)
	}
	return nil
}

func (r *PostgresRepo) Remove(ctx context.Context, userID, laptopID int) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM wishlist WHERE user_id = $1 AND laptop_id = $2`, userID, laptopID)
	if err != nil {
		return false, fmt.Errorf("remove from wishlist: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepo) List(ctx context.Context, userID int) ([]models.Laptop, error) {
	rows, err := r.db.Query(ctx, `
		SELECT l.id, l.name, l.brand, l.price, l.original_price, l.images, l.rating, l.reviews,
		       l.badge, l.specs, l.in_stock, l.description, l.created_at, l.updated_at
		FROM laptops l
		JOIN wishlist w ON l.id = w.laptop_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC, w.id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	defer rows.Close()

	laptops := []models.Laptop{}
	for rows.Next() {
		var l models.Laptop
		if err := rows.Scan(&l.ID, &l.Name, &l.Brand, &l.Price, &l.OriginalPrice, &l.Images, &l.Rating,
			&l.Reviews, &l.Badge, &l.Specs, &l.InStock, &l.Description, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan wishlist laptop: %w", err)
		}
		laptops = append(laptops, l)
	}
	return laptops, rows.Err()
}

// MemoryRepo resolves saved ids against a catalog at read time; laptops
// deleted from the catalog drop out of every list.
type MemoryRepo struct {
	mu      sync.Mutex
	catalog catalog.Store
	saved   map[int][]saved
	seq     int
}

type saved struct {
	laptopID int
	seq      int
	at       time.Time
}

func NewMemoryRepo(c catalog.Store) *MemoryRepo {
	return &MemoryRepo{catalog: c, saved: make(map[int][]saved)}
}

func (r *MemoryRepo) Add(ctx context.Context, userID, laptopID int) error {
	if _, err := r.catalog.Get(ctx, laptopID); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.saved[userID] {
		if s.laptopID == laptopID {
			return nil
		}
	}
	r.seq++
	r.saved[userID] = append(r.saved[userID], saved{laptopID: laptopID, seq: r.seq, at: time.Now()})
	return nil
}

func (r *MemoryRepo) Remove(ctx context.Context, userID, laptopID int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.saved[userID]
	for i, s := range list {
		if s.laptopID == laptopID {
			r.saved[userID] = append(list[:i:i], list[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepo) List(ctx context.Context, userID int) ([]models.Laptop, error) {
	r.mu.Lock()
	list := append([]saved(nil), r.saved[userID]...)
	r.mu.Unlock()

	sort.Slice(list, func(i, j int) bool { return list[i].seq > list[j].seq })

	laptops := []models.Laptop{}
	for _, s := range list {
		l, err := r.catalog.Get(ctx, s.laptopID)
		if errors.Is(err, catalog.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		laptops = append(laptops, l)
	}
	return laptops, nil
}
