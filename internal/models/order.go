package models

import "time"

// OrderStatus enumerates order lifecycle states.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is a storefront purchase. Items carry price snapshots taken at
// order time so later catalog edits do not rewrite history.
type Order struct {
	ID        int         `db:"id" json:"-"`
	OrderID   string      `db:"order_id" json:"orderId"`
	ClientID  int         `db:"client_id" json:"clientId"`
	Status    OrderStatus `db:"status" json:"status"`
	Subtotal  float64     `db:"subtotal" json:"subtotal"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time   `db:"updated_at" json:"updatedAt"`

	Items []OrderItem `db:"-" json:"items,omitempty"`
}

// OrderItem is a single product line within an order.
type OrderItem struct {
	ID          int     `db:"id" json:"-"`
	OrderID     int     `db:"order_id" json:"-"`
	ProductID   string  `db:"product_id" json:"productId"`
	VendorID    string  `db:"vendor_id" json:"vendorId"`
	ProductName string  `db:"product_name" json:"productName"`
	Quantity    int     `db:"quantity" json:"quantity"`
	UnitPrice   float64 `db:"unit_price" json:"unitPrice"`
	LineTotal   float64 `db:"line_total" json:"lineTotal"`
}
