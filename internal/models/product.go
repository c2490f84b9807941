package models

import "time"

// Product represents a listed collectible attributed to exactly one
// vendor and one category. Vendor and category references arriving in
// mixed string/object shapes are normalized to the scalar forms below
// at ingestion (see VendorRef and CategoryRef).
type Product struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	Price       float64   `db:"price" json:"price"`
	Stock       int       `db:"stock" json:"stock"`
	VendorID    string    `db:"vendor_id" json:"vendorId"`
	Category    string    `db:"category" json:"category"`
	ImageURL    string    `db:"image_url" json:"imageUrl,omitempty"`
	Views       int       `db:"views" json:"views"`
	Rating      float64   `db:"rating" json:"rating"`
	ReviewCount int       `db:"review_count" json:"reviewCount"`
	Featured    bool      `db:"featured" json:"featured"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}
