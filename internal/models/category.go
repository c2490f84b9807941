package models

// Category is a product grouping. ProductCount is computed from the
// products table on read.
type Category struct {
	ID           int    `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Slug         string `db:"slug" json:"slug"`
	ProductCount int    `db:"product_count" json:"productCount"`
}
