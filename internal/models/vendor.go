package models

import "time"

// Vendor represents a seller account in the marketplace.
// Rating and TotalSales are denormalized rollups maintained by the
// metrics worker; they are read-only on the API surface.
type Vendor struct {
	ID           string    `db:"id" json:"id"`
	Slug         string    `db:"slug" json:"slug"`
	Name         string    `db:"name" json:"name"`
	Description  string    `db:"description" json:"description,omitempty"`
	Rating       float64   `db:"rating" json:"rating"`
	TotalSales   int       `db:"total_sales" json:"totalSales"`
	ProductCount int       `db:"product_count" json:"productCount"`
	Verified     bool      `db:"verified" json:"verified"`
	JoinedAt     time.Time `db:"joined_at" json:"joinedDate"`

	// Payout destination, settled by ops out of band. Never exposed
	// on the public API surface.
	BankCode          *string `db:"bank_code" json:"-"`
	BankAccountNumber *string `db:"bank_account_number" json:"-"`
	BankAccountName   *string `db:"bank_account_name" json:"-"`

	CreatedAt    time.Time `db:"created_at" json:"-"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}
