package repository

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/lpxcollect/lpx_api/internal/models"
)

// ProductRepository handles data access for products.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetByID returns a single product by id.
func (r *ProductRepository) GetByID(id string) (*models.Product, error) {
	const q = `SELECT * FROM products WHERE id = $1 LIMIT 1`
	var p models.Product
	if err := r.db.Get(&p, q, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByVendor returns all products belonging to a vendor, newest first.
// An empty result is not an error; downstream statistics degrade to
// zero/empty values.
func (r *ProductRepository) GetByVendor(vendorID string) ([]models.Product, error) {
	const q = `SELECT * FROM products WHERE vendor_id = $1 ORDER BY created_at DESC, id`
	products := []models.Product{}
	if err := r.db.Select(&products, q, vendorID); err != nil {
		return nil, err
	}
	return products, nil
}

// GetByVendorPaged returns a vendor's active products with pagination.
func (r *ProductRepository) GetByVendorPaged(vendorID string, page, limit int) ([]models.Product, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	offset := (page - 1) * limit

	var total int
	if err := r.db.Get(&total, `SELECT COUNT(1) FROM products WHERE vendor_id = $1 AND is_active = true`, vendorID); err != nil {
		return nil, 0, err
	}

	products := []models.Product{}
	const q = `SELECT * FROM products WHERE vendor_id = $1 AND is_active = true
        ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`
	if err := r.db.Select(&products, q, vendorID, limit, offset); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetAll returns every product, used by the metrics worker for rollups.
func (r *ProductRepository) GetAll() ([]models.Product, error) {
	products := []models.Product{}
	if err := r.db.Select(&products, `SELECT * FROM products ORDER BY vendor_id, created_at DESC`); err != nil {
		return nil, err
	}
	return products, nil
}

// BrowseFilter holds filters for storefront product browsing.
type BrowseFilter struct {
	Category string
	VendorID string
	Search   string
	MinPrice *float64
	MaxPrice *float64
	Featured *bool
	Sort     string // price-asc | price-desc | views | newest
	Page     int
	Limit    int

	// IncludeInactive widens the scope to hidden listings; admin only.
	IncludeInactive bool
}

// Browse returns products matching the filter with total count.
// Inactive listings are excluded unless IncludeInactive is set.
func (r *ProductRepository) Browse(filter *BrowseFilter) ([]models.Product, int, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	offset := (filter.Page - 1) * filter.Limit

	// Build dynamic WHERE clause
	baseWhere := `WHERE is_active = true`
	if filter.IncludeInactive {
		baseWhere = `WHERE 1=1`
	}
	args := []interface{}{}
	argIdx := 1

	if filter.Category != "" {
		baseWhere += fmt.Sprintf(" AND category = $%d", argIdx)
		args = append(args, filter.Category)
		argIdx++
	}
	if filter.VendorID != "" {
		baseWhere += fmt.Sprintf(" AND vendor_id = $%d", argIdx)
		args = append(args, filter.VendorID)
		argIdx++
	}
	if filter.Search != "" {
		baseWhere += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}
	if filter.MinPrice != nil {
		baseWhere += fmt.Sprintf(" AND price >= $%d", argIdx)
		args = append(args, *filter.MinPrice)
		argIdx++
	}
	if filter.MaxPrice != nil {
		baseWhere += fmt.Sprintf(" AND price <= $%d", argIdx)
		args = append(args, *filter.MaxPrice)
		argIdx++
	}
	if filter.Featured != nil {
		baseWhere += fmt.Sprintf(" AND featured = $%d", argIdx)
		args = append(args, *filter.Featured)
		argIdx++
	}

	countQuery := `SELECT COUNT(1) FROM products ` + baseWhere
	var total int
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	orderBy := `ORDER BY created_at DESC, id`
	switch filter.Sort {
	case "price-asc":
		orderBy = `ORDER BY price ASC, id`
	case "price-desc":
		orderBy = `ORDER BY price DESC, id`
	case "views":
		orderBy = `ORDER BY views DESC, id`
	}

	listQuery := fmt.Sprintf("SELECT * FROM products %s %s LIMIT $%d OFFSET $%d", baseWhere, orderBy, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	products := []models.Product{}
	if err := r.db.Select(&products, listQuery, args...); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Create creates a new product.
func (r *ProductRepository) Create(p *models.Product) error {
	const q = `
        INSERT INTO products (id, name, description, price, stock, vendor_id, category, image_url,
                              views, rating, review_count, featured, is_active, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
        RETURNING created_at, updated_at`
	return r.db.QueryRowx(q,
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.VendorID, p.Category, p.ImageURL,
		p.Views, p.Rating, p.ReviewCount, p.Featured, p.IsActive, p.CreatedAt,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// Update updates an existing product.
func (r *ProductRepository) Update(p *models.Product) error {
	const q = `UPDATE products
        SET name = $2, description = $3, price = $4, stock = $5, category = $6,
            image_url = $7, featured = $8, is_active = $9, updated_at = NOW()
        WHERE id = $1
        RETURNING updated_at`
	return r.db.QueryRowx(q,
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.Category,
		p.ImageURL, p.Featured, p.IsActive,
	).Scan(&p.UpdatedAt)
}

// Delete deletes a product by id.
func (r *ProductRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// AddViews adds drained view counts to a product.
func (r *ProductRepository) AddViews(id string, delta int) error {
	_, err := r.db.Exec(`UPDATE products SET views = views + $2 WHERE id = $1`, id, delta)
	return err
}

// GetForUpdate locks a product row inside an order transaction.
func (r *ProductRepository) GetForUpdate(tx *sqlx.Tx, id string) (*models.Product, error) {
	const q = `SELECT * FROM products WHERE id = $1 FOR UPDATE`
	var p models.Product
	if err := tx.Get(&p, q, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// DecrementStock reduces stock inside an order transaction. The guard
// in the WHERE clause keeps stock from ever going negative under
// concurrent checkouts.
func (r *ProductRepository) DecrementStock(tx *sqlx.Tx, id string, qty int) error {
	const q = `UPDATE products SET stock = stock - $2, updated_at = NOW()
        WHERE id = $1 AND stock >= $2`
	res, err := tx.Exec(q, id, qty)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
