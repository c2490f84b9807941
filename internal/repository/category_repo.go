package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/lpxcollect/lpx_api/internal/models"
)

// CategoryRepository handles data access for categories.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// GetAll returns all categories with live product counts.
func (r *CategoryRepository) GetAll() ([]models.Category, error) {
	const q = `
        SELECT c.id, c.name, c.slug, COUNT(p.id) AS product_count
        FROM categories c
        LEFT JOIN products p ON p.category = c.name AND p.is_active = true
        GROUP BY c.id, c.name, c.slug
        ORDER BY c.name`
	categories := []models.Category{}
	if err := r.db.Select(&categories, q); err != nil {
		return nil, err
	}
	return categories, nil
}

// Upsert registers a category by name, keeping the first slug seen.
// Called at product ingestion so the category list stays in step with
// the catalog without a separate management surface.
func (r *CategoryRepository) Upsert(name, slug string) error {
	const q = `
        INSERT INTO categories (name, slug)
        VALUES ($1, $2)
        ON CONFLICT (name) DO NOTHING`
	_, err := r.db.Exec(q, name, slug)
	return err
}
