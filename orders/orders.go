// Package orders records confirmed checkouts as orders and order items.
package orders

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/shopspring/decimal"

	"laptopshop/condb"
	"laptopshop/models"
)

type Recorder interface {
	Record(ctx context.Context, o models.Order) (models.Order, error)
	ListByUser(ctx context.Context, userID int) ([]models.Order, error)
}

// New builds an unsaved order from checkout output.
func New(userID *int, total int64, shipping, payment string, items []models.CartItem) models.Order {
	o := models.Order{
		UserID:          userID,
		TotalAmount:     decimal.NewFromInt(total),
		Status:          models.OrderStatusPaid,
		ShippingAddress: shipping,
		PaymentMethod:   payment,
	}
	for _, it := range items {
		o.Items = append(o.Items, models.OrderItem{
			LaptopID: it.LaptopID,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}
	return o
}

type MemoryRecorder struct {
	mu      sync.Mutex
	orders  []models.Order
	nextID  int64
	itemSeq int64
}

func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

func (m *MemoryRecorder) Record(ctx context.Context, o models.Order) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	o.ID = m.nextID
	o.CreatedAt = time.Now()
	items := make([]models.OrderItem, len(o.Items))
	for i, it := range o.Items {
		m.itemSeq++
		it.ID = m.itemSeq
		it.OrderID = o.ID
		items[i] = it
	}
	o.Items = items
	m.orders = append(m.orders, o)
	return o, nil
}

// ListByUser returns the user's orders newest first.
func (m *MemoryRecorder) ListByUser(ctx context.Context, userID int) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []models.Order{}
	for i := len(m.orders) - 1; i >= 0; i-- {
		o := m.orders[i]
		if o.UserID != nil && *o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

type PostgresRecorder struct {
	db condb.DB
}

func NewPostgresRecorder(db condb.DB) *PostgresRecorder {
	return &PostgresRecorder{db: db}
}

// Record inserts the order and its items in one transaction.
func (p *PostgresRecorder) Record(ctx context.Context, o models.Order) (models.Order, error) {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return models.Order{}, fmt.Errorf("begin order: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (user_id, total_amount, status, shipping_address, payment_method)
		VALUES ($1, $2::numeric, $3, $4, $5)
		RETURNING id, created_at`,
		o.UserID, o.TotalAmount.StringFixed(2), o.Status, o.ShippingAddress, o.PaymentMethod,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return models.Order{}, fmt.Errorf("insert order: %w", err)
	}

	for i := range o.Items {
		it := &o.Items[i]
		it.OrderID = o.ID
		if err := tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, laptop_id, quantity, price)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			o.ID, it.LaptopID, it.Quantity, it.Price,
		).Scan(&it.ID); err != nil {
			return models.Order{}, fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Order{}, fmt.Errorf("commit order: %w", err)
	}
	return o, nil
}

func (p *PostgresRecorder) ListByUser(ctx context.Context, userID int) ([]models.Order, error) {
	rows, err := p.db.Query(ctx, `
		SELECT id, user_id, total_amount::text, status, shipping_address, payment_method, created_at
		FROM orders WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	out := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if err := p.loadItems(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// loadItems fills Items of every order in list. A line whose laptop has
// since been deleted keeps its price with LaptopID 0.
func (p *PostgresRecorder) loadItems(ctx context.Context, list []models.Order) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]int64, len(list))
	byID := make(map[int64]*models.Order, len(list))
	for i := range list {
		ids[i] = list[i].ID
		byID[list[i].ID] = &list[i]
	}

	rows, err := p.db.Query(ctx, `
		SELECT id, order_id, COALESCE(laptop_id, 0), quantity, price
		FROM order_items WHERE order_id = ANY($1)
		ORDER BY id`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.LaptopID, &it.Quantity, &it.Price); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		if o, ok := byID[it.OrderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}

func scanOrder(row pgx.Row) (models.Order, error) {
	var (
		o     models.Order
		total string
	)
	if err := row.Scan(&o.ID, &o.UserID, &total, &o.Status, &o.ShippingAddress, &o.PaymentMethod, &o.CreatedAt); err != nil {
		return models.Order{}, fmt.Errorf("scan order: %w", err)
	}
	amount, err := decimal.NewFromString(total)
	if err != nil {
		return models.Order{}, fmt.Errorf("parse order total %q: %w", total, err)
	}
	o.TotalAmount = amount
	return o, nil
}
