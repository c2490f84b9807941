package repository

import (
	"github.com/jmoiron/sqlx"
)

// PlatformStats contains marketplace-wide totals for the admin dashboard.
type PlatformStats struct {
	TotalVendors    int     `db:"total_vendors" json:"totalVendors"`
	VerifiedVendors int     `db:"verified_vendors" json:"verifiedVendors"`
	TotalProducts   int     `db:"total_products" json:"totalProducts"`
	ActiveProducts  int     `db:"active_products" json:"activeProducts"`
	TotalOrders     int     `db:"total_orders" json:"totalOrders"`
	TotalRevenue    float64 `db:"total_revenue" json:"totalRevenue"`
	PendingPayouts  float64 `db:"pending_payouts" json:"pendingPayouts"`
}

// StatsRepository aggregates cross-table platform statistics.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository creates a new StatsRepository.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// GetPlatformStats computes platform totals in a single round trip.
func (r *StatsRepository) GetPlatformStats() (*PlatformStats, error) {
	const q = `
        SELECT
            (SELECT COUNT(1) FROM vendors)                                    AS total_vendors,
            (SELECT COUNT(1) FROM vendors WHERE verified = true)              AS verified_vendors,
            (SELECT COUNT(1) FROM products)                                   AS total_products,
            (SELECT COUNT(1) FROM products WHERE is_active = true)            AS active_products,
            (SELECT COUNT(1) FROM orders)                                     AS total_orders,
            (SELECT COALESCE(SUM(subtotal), 0) FROM orders
                WHERE status = 'completed')                                   AS total_revenue,
            (SELECT COALESCE(SUM(net_amount), 0) FROM payment_requests
                WHERE status IN ('pending', 'approved', 'processing'))        AS pending_payouts`
	var stats PlatformStats
	if err := r.db.Get(&stats, q); err != nil {
		return nil, err
	}
	return &stats, nil
}
