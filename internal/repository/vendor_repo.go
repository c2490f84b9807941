package repository

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/lpxcollect/lpx_api/internal/models"
)

// VendorRepository handles data access for vendors.
type VendorRepository struct {
	db *sqlx.DB
}

// NewVendorRepository creates a new VendorRepository.
func NewVendorRepository(db *sqlx.DB) *VendorRepository {
	return &VendorRepository{db: db}
}

// GetByID returns a single vendor by id.
func (r *VendorRepository) GetByID(id string) (*models.Vendor, error) {
	const q = `SELECT * FROM vendors WHERE id = $1 LIMIT 1`
	var v models.Vendor
	if err := r.db.Get(&v, q, id); err != nil {
		return nil, err
	}
	return &v, nil
}

// GetBySlug returns a single vendor by slug.
func (r *VendorRepository) GetBySlug(slug string) (*models.Vendor, error) {
	const q = `SELECT * FROM vendors WHERE slug = $1 LIMIT 1`
	var v models.Vendor
	if err := r.db.Get(&v, q, slug); err != nil {
		return nil, err
	}
	return &v, nil
}

// VendorFilter holds filters for vendor listing.
type VendorFilter struct {
	Verified *bool
	Search   string
	Sort     string // rating | sales | newest
	Page     int
	Limit    int
}

// GetAllPaged returns vendors with filters and pagination plus total count.
func (r *VendorRepository) GetAllPaged(filter *VendorFilter) ([]models.Vendor, int, error) {
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

	baseWhere := `WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.Verified != nil {
		baseWhere += ` AND verified = $1`
		args = append(args, *filter.Verified)
		argIdx++
	}
	if filter.Search != "" {
		baseWhere += fmt.Sprintf(" AND name ILIKE '%%' || $%d || '%%'", argIdx)
		args = append(args, filter.Search)
		argIdx++
	}

	countQuery := `SELECT COUNT(1) FROM vendors ` + baseWhere
	var total int
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	orderBy := `ORDER BY rating DESC, total_sales DESC`
	switch filter.Sort {
	case "sales":
		orderBy = `ORDER BY total_sales DESC, rating DESC`
	case "newest":
		orderBy = `ORDER BY joined_at DESC`
	}

	listQuery := fmt.Sprintf("SELECT * FROM vendors %s %s LIMIT $%d OFFSET $%d", baseWhere, orderBy, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	var vendors []models.Vendor
	if err := r.db.Select(&vendors, listQuery, args...); err != nil {
		return nil, 0, err
	}
	return vendors, total, nil
}

// Create creates a new vendor.
func (r *VendorRepository) Create(v *models.Vendor) error {
	const q = `
        INSERT INTO vendors (id, slug, name, description, rating, total_sales, product_count, verified,
                             bank_code, bank_account_number, bank_account_name, joined_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
        RETURNING joined_at, created_at, updated_at`
	return r.db.QueryRowx(q,
		v.ID, v.Slug, v.Name, v.Description, v.Rating, v.TotalSales, v.ProductCount, v.Verified,
		v.BankCode, v.BankAccountNumber, v.BankAccountName,
	).Scan(&v.JoinedAt, &v.CreatedAt, &v.UpdatedAt)
}

// UpdateMetrics writes the rating and product-count rollups for a vendor.
func (r *VendorRepository) UpdateMetrics(id string, rating float64, productCount int) error {
	const q = `UPDATE vendors SET rating = $2, product_count = $3, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(q, id, rating, productCount)
	return err
}

// IncrementTotalSales adds sold units to a vendor's rollup inside an
// order transaction.
func (r *VendorRepository) IncrementTotalSales(tx *sqlx.Tx, id string, delta int) error {
	const q = `UPDATE vendors SET total_sales = total_sales + $2, updated_at = NOW() WHERE id = $1`
	res, err := tx.Exec(q, id, delta)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetAllIDs returns every vendor id, used by the metrics worker.
func (r *VendorRepository) GetAllIDs() ([]string, error) {
	var ids []string
	if err := r.db.Select(&ids, `SELECT id FROM vendors ORDER BY id`); err != nil {
		return nil, err
	}
	return ids, nil
}
