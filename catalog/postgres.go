package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"

	"laptopshop/condb"
	"laptopshop/models"
)

const laptopColumns = `id, name, brand, price, original_price, images, rating, reviews, badge, specs, in_stock, description, created_at, updated_at`

type PostgresStore struct {
	db condb.DB
}

func NewPostgresStore(db condb.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) List(ctx context.Context) ([]models.Laptop, error) {
	rows, err := s.db.Query(ctx, `SELECT `+laptopColumns+` FROM laptops ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list laptops: %w", err)
	}
	defer rows.Close()

	laptops := []models.Laptop{}
	for rows.Next() {
		l, err := scanLaptop(rows)
		if err != nil {
			return nil, fmt.Errorf("scan laptop: %w", err)
		}
		laptops = append(laptops, l)
	}
	return laptops, rows.Err()
}

func (s *PostgresStore) Get(ctx context.Context, id int) (models.Laptop, error) {
	l, err := scanLaptop(s.db.QueryRow(ctx, `SELECT `+laptopColumns+` FROM laptops WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Laptop{}, ErrNotFound
	}
	if err != nil {
		return models.Laptop{}, fmt.Errorf("get laptop %d: %w", id, err)
	}
	return l, nil
}

func (s *PostgresStore) Create(ctx context.Context, in models.LaptopInput) (models.Laptop, error) {
	l := NewLaptop(in, time.Now())
	row := s.db.QueryRow(ctx, `
		INSERT INTO laptops (name, brand, price, original_price, images, rating, reviews, badge, specs, in_stock, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+laptopColumns,
		l.Name, l.Brand, l.Price, l.OriginalPrice, l.Images, l.Rating, l.Reviews, l.Badge, l.Specs, l.InStock, l.Description,
	)
	created, err := scanLaptop(row)
	if err != nil {
		return models.Laptop{}, fmt.Errorf("create laptop: %w", err)
	}
	return created, nil
}

// Update writes only the columns present in p. An empty patch still bumps
// updated_at so callers can confirm the row exists.
func (s *PostgresStore) Update(ctx context.Context, id int, p models.LaptopPatch) (models.Laptop, error) {
	sets, args := patchColumns(p)
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE laptops SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), laptopColumns)

	l, err := scanLaptop(s.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Laptop{}, ErrNotFound
	}
	if err != nil {
		return models.Laptop{}, fmt.Errorf("update laptop %d: %w", id, err)
	}
	return l, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM laptops WHERE id = $1`, id)
	if condb.IsForeignKeyViolation(err) {
		return false, fmt.Errorf("delete laptop %d: %w", id, ErrInUse)
	}
	if err != nil {
		return false, fmt.Errorf("delete laptop %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// Seed inserts in as a catalog row; it matches condb.Seeder.
func (s *PostgresStore) Seed(ctx context.Context, in models.LaptopInput) error {
	_, err := s.Create(ctx, in)
	return err
}

func patchColumns(p models.LaptopPatch) ([]string, []interface{}) {
	var sets []string
	var args []interface{}
	add := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.Brand != nil {
		add("brand", *p.Brand)
	}
	if p.Price != nil {
		add("price", *p.Price)
	}
	if p.OriginalPrice != nil {
		add("original_price", nullable(*p.OriginalPrice))
	}
	if p.Images != nil {
		add("images", nonNil(*p.Images))
	}
	if p.Rating != nil {
		add("rating", *p.Rating)
	}
	if p.Reviews != nil {
		add("reviews", *p.Reviews)
	}
	if p.Badge != nil {
		add("badge", *p.Badge)
	}
	if p.Specs != nil {
		add("specs", nonNil(*p.Specs))
	}
	if p.InStock != nil {
		add("in_stock", *p.InStock)
	}
	if p.Description != nil {
		add("description", nullable(*p.Description))
	}
	return sets, args
}

func scanLaptop(row pgx.Row) (models.Laptop, error) {
	var l models.Laptop
	err := row.Scan(
		&l.ID,
		&l.Name,
		&l.Brand,
		&l.Price,
		&l.OriginalPrice,
		&l.Images,
		&l.Rating,
		&l.Reviews,
		&l.Badge,
		&l.Specs,
		&l.InStock,
		&l.Description,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if l.Images == nil {
		l.Images = []string{}
	}
	if l.Specs == nil {
		l.Specs = []string{}
	}
	return l, err
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
