package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"

	"laptopshop/condb"
	"laptopshop/models"
)

type MemoryUsers struct {
	mu      sync.RWMutex
	byEmail map[string]Record
	nextID  int
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{byEmail: make(map[string]Record)}
}

func (m *MemoryUsers) Create(ctx context.Context, rec Record) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byEmail[rec.Email]; ok {
		return models.User{}, ErrDuplicateEmail
	}
	m.nextID++
	rec.ID = m.nextID
	rec.CreatedAt = time.Now()
	m.byEmail[rec.Email] = rec
	return rec.User, nil
}

func (m *MemoryUsers) ByEmail(ctx context.Context, email string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.byEmail[email]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

type PostgresUsers struct {
	db condb.DB
}

func NewPostgresUsers(db condb.DB) *PostgresUsers {
	return &PostgresUsers{db: db}
}

func (p *PostgresUsers) Create(ctx context.Context, rec Record) (models.User, error) {
	var u models.User
	err := p.db.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, first_name, last_name, created_at`,
		rec.Email, rec.PasswordHash, rec.FirstName, rec.LastName,
	).Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.CreatedAt)
	if condb.IsUniqueViolation(err) {
		return models.User{}, ErrDuplicateEmail
	}
	if err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (p *PostgresUsers) ByEmail(ctx context.Context, email string) (Record, error) {
	var rec Record
	err := p.db.QueryRow(ctx, `
		SELECT id, email, password_hash, first_name, last_name, created_at
		FROM users WHERE email = $1`,
		email,
	).Scan(&rec.ID, &rec.Email, &rec.PasswordHash, &rec.FirstName, &rec.LastName, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get user: %w", err)
	}
	return rec, nil
}
