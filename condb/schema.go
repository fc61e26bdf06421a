package condb

import (
	"context"
	"fmt"
	"time"

	"laptopshop/models"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS laptops (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		brand VARCHAR(100) NOT NULL,
		price VARCHAR(50) NOT NULL,
		original_price VARCHAR(50),
		images TEXT[] DEFAULT '{}',
		rating DECIMAL(2,1) DEFAULT 4.5,
		reviews INTEGER DEFAULT 0,
		badge VARCHAR(50) DEFAULT 'New',
		specs TEXT[] DEFAULT '{}',
		in_stock BOOLEAN DEFAULT true,
		description TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id SERIAL PRIMARY KEY,
		user_id INTEGER REFERENCES users(id),
		total_amount DECIMAL(10,2) NOT NULL,
		status VARCHAR(50) DEFAULT 'pending',
		shipping_address TEXT NOT NULL,
		payment_method VARCHAR(50) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id SERIAL PRIMARY KEY,
		order_id INTEGER REFERENCES orders(id),
		laptop_id INTEGER REFERENCES laptops(id) ON DELETE SET NULL,
		quantity INTEGER NOT NULL,
		price VARCHAR(50) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS wishlist (
		id SERIAL PRIMARY KEY,
		user_id INTEGER REFERENCES users(id),
		laptop_id INTEGER REFERENCES laptops(id) ON DELETE CASCADE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(user_id, laptop_id)
	)`,
	// Tables created without delete actions would block deleting a laptop
	// that was sold or saved.
	`ALTER TABLE order_items
		DROP CONSTRAINT IF EXISTS order_items_laptop_id_fkey,
		ADD CONSTRAINT order_items_laptop_id_fkey
			FOREIGN KEY (laptop_id) REFERENCES laptops(id) ON DELETE SET NULL`,
	`ALTER TABLE wishlist
		DROP CONSTRAINT IF EXISTS wishlist_laptop_id_fkey,
		ADD CONSTRAINT wishlist_laptop_id_fkey
			FOREIGN KEY (laptop_id) REFERENCES laptops(id) ON DELETE CASCADE`,
}

// Tables lists the tables Init creates, in creation order.
var Tables = []string{"users", "laptops", "orders", "order_items", "wishlist"}

type InitResult struct {
	Message             string   `json:"message"`
	TablesCreated       []string `json:"tablesCreated"`
	DefaultLaptopsAdded bool     `json:"defaultLaptopsAdded"`
}

type Status struct {
	Status      string    `json:"status"`
	CurrentTime time.Time `json:"currentTime"`
	Tables      []string  `json:"tables"`
	LaptopCount int       `json:"laptopCount"`
}

// Seeder inserts one catalog row; the catalog store satisfies it.
type Seeder func(ctx context.Context, in models.LaptopInput) error

// Init creates all tables if they are missing and, when the laptops table
// is empty, inserts the seed rows. Running it twice is harmless.
func Init(ctx context.Context, db DB, seed []models.LaptopInput, insert Seeder) (InitResult, error) {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return InitResult{}, fmt.Errorf("create schema: %w", err)
		}
	}

	var count int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM laptops`).Scan(&count); err != nil {
		return InitResult{}, fmt.Errorf("count laptops: %w", err)
	}

	added := false
	if count == 0 && insert != nil {
		for _, in := range seed {
			if err := insert(ctx, in); err != nil {
				return InitResult{}, fmt.Errorf("seed laptop %q: %w", in.Name, err)
			}
		}
		added = len(seed) > 0
	}

	return InitResult{
		Message:             "Database initialized successfully",
		TablesCreated:       Tables,
		DefaultLaptopsAdded: added,
	}, nil
}

// Check reports connectivity, the public tables and the catalog size.
func Check(ctx context.Context, db DB) (Status, error) {
	st := Status{Status: "disconnected"}

	if err := db.QueryRow(ctx, `SELECT NOW()`).Scan(&st.CurrentTime); err != nil {
		return st, fmt.Errorf("ping: %w", err)
	}

	rows, err := db.Query(ctx, `SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' ORDER BY table_name`)
	if err != nil {
		return st, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return st, fmt.Errorf("scan table: %w", err)
		}
		st.Tables = append(st.Tables, name)
	}
	if err := rows.Err(); err != nil {
		return st, err
	}

	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM laptops`).Scan(&st.LaptopCount); err != nil {
		return st, fmt.Errorf("count laptops: %w", err)
	}

	st.Status = "connected"
	return st, nil
}
