package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
)

type Order struct {
	ID              int64           `json:"id"`
	UserID          *int            `json:"user_id,omitempty"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          string          `json:"status"`
	ShippingAddress string          `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
	CreatedAt       time.Time       `json:"created_at"`
	Items           []OrderItem     `json:"items,omitempty"`
}

type OrderItem struct {
	ID       int64  `json:"id"`
	OrderID  int64  `json:"order_id"`
	LaptopID int    `json:"laptop_id"` // 0 once the laptop is deleted
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}
