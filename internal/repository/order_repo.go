package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/lpxcollect/lpx_api/internal/models"
)

// OrderRepository handles data access for orders and order items.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// InTx runs fn inside a transaction and commits when it returns nil.
// Stock checks, the order insert, and vendor rollups must commit or
// roll back together.
func (r *OrderRepository) InTx(fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Insert writes the order row inside a transaction.
func (r *OrderRepository) Insert(tx *sqlx.Tx, o *models.Order) error {
	const q = `
        INSERT INTO orders (order_id, client_id, status, subtotal)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`
	return tx.QueryRowx(q, o.OrderID, o.ClientID, o.Status, o.Subtotal).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
}

// InsertItem writes a single order line inside a transaction.
func (r *OrderRepository) InsertItem(tx *sqlx.Tx, item *models.OrderItem) error {
	const q = `
        INSERT INTO order_items (order_id, product_id, vendor_id, product_name, quantity, unit_price, line_total)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id`
	return tx.QueryRowx(q,
		item.OrderID, item.ProductID, item.VendorID, item.ProductName,
		item.Quantity, item.UnitPrice, item.LineTotal,
	).Scan(&item.ID)
}

// GetByOrderID returns an order with its items by public order id.
func (r *OrderRepository) GetByOrderID(orderID string) (*models.Order, error) {
	var o models.Order
	if err := r.db.Get(&o, `SELECT * FROM orders WHERE order_id = $1 LIMIT 1`, orderID); err != nil {
		return nil, err
	}
	items := []models.OrderItem{}
	if err := r.db.Select(&items, `SELECT * FROM order_items WHERE order_id = $1 ORDER BY id`, o.ID); err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

// GetAllPaged returns orders for admin, newest first.
func (r *OrderRepository) GetAllPaged(page, limit int) ([]models.Order, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	offset := (page - 1) * limit

	var total int
	if err := r.db.Get(&total, `SELECT COUNT(1) FROM orders`); err != nil {
		return nil, 0, err
	}

	orders := []models.Order{}
	const q = `SELECT * FROM orders ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	if err := r.db.Select(&orders, q, limit, offset); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// VendorRevenue returns the gross revenue a vendor has earned across
// completed orders. Used as the basis for payout balance checks.
func (r *OrderRepository) VendorRevenue(vendorID string) (float64, error) {
	const q = `
        SELECT COALESCE(SUM(oi.line_total), 0)
        FROM order_items oi
        JOIN orders o ON o.id = oi.order_id
        WHERE oi.vendor_id = $1 AND o.status = 'completed'`
	var revenue float64
	if err := r.db.Get(&revenue, q, vendorID); err != nil {
		return 0, err
	}
	return revenue, nil
}
