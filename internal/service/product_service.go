package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/lpxcollect/lpx_api/internal/cache"
	"github.com/lpxcollect/lpx_api/internal/models"
	"github.com/lpxcollect/lpx_api/internal/repository"
	"github.com/lpxcollect/lpx_api/internal/utils"
)

// ProductService handles storefront catalog reads.
type ProductService struct {
	productRepo  *repository.ProductRepository
	vendorRepo   *repository.VendorRepository
	categoryRepo *repository.CategoryRepository
	viewCounter  *cache.ViewCounter
}

// NewProductService constructs a ProductService.
func NewProductService(
	productRepo *repository.ProductRepository,
	vendorRepo *repository.VendorRepository,
	categoryRepo *repository.CategoryRepository,
	viewCounter *cache.ViewCounter,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		vendorRepo:   vendorRepo,
		categoryRepo: categoryRepo,
		viewCounter:  viewCounter,
	}
}

// Browse returns active products matching the filter. A vendor filter
// accepts id or slug; an unknown vendor yields an empty page rather
// than an error so storefront filter UIs degrade gracefully.
func (s *ProductService) Browse(filter *repository.BrowseFilter) ([]models.Product, int, error) {
	if filter.VendorID != "" {
		vendor, err := resolveVendor(s.vendorRepo, filter.VendorID)
		switch {
		case err == nil:
			filter.VendorID = vendor.ID
		case errors.Is(err, utils.ErrVendorNotFound):
			return []models.Product{}, 0, nil
		default:
			return nil, 0, err
		}
	}
	filter.IncludeInactive = false
	return s.productRepo.Browse(filter)
}

// GetProduct returns an active product by id and buffers a detail-page
// view in Redis. View recording is best effort: a Redis outage must
// not break the product page.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, utils.ErrProductNotFound
	}

	if err := s.viewCounter.Record(ctx, product.ID); err != nil {
		log.Warn().Err(err).Str("product_id", product.ID).Msg("Failed to record product view")
	}

	return product, nil
}

// ListCategories returns all categories with live product counts.
func (s *ProductService) ListCategories() ([]models.Category, error) {
	return s.categoryRepo.GetAll()
}
