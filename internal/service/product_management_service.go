package service

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lpxcollect/lpx_api/internal/models"
	"github.com/lpxcollect/lpx_api/internal/repository"
	"github.com/lpxcollect/lpx_api/internal/utils"
)

// ProductManagementService handles admin-side catalog writes.
type ProductManagementService struct {
	productRepo  *repository.ProductRepository
	vendorRepo   *repository.VendorRepository
	categoryRepo *repository.CategoryRepository
}

// NewProductManagementService constructs a ProductManagementService.
func NewProductManagementService(
	productRepo *repository.ProductRepository,
	vendorRepo *repository.VendorRepository,
	categoryRepo *repository.CategoryRepository,
) *ProductManagementService {
	return &ProductManagementService{
		productRepo:  productRepo,
		vendorRepo:   vendorRepo,
		categoryRepo: categoryRepo,
	}
}

// ProductInput is the ingestion payload for creating or importing a
// product. Vendor and Category tolerate both scalar and object JSON
// shapes; they are normalized by their UnmarshalJSON before this
// struct is ever inspected.
type ProductInput struct {
	Name        string             `json:"name" binding:"required"`
	Description string             `json:"description"`
	Price       float64            `json:"price" binding:"min=0"`
	Stock       int                `json:"stock" binding:"min=0"`
	Vendor      models.VendorRef   `json:"vendor"`
	Category    models.CategoryRef `json:"category"`
	ImageURL    string             `json:"imageUrl"`
	Views       int                `json:"views"`
	Rating      float64            `json:"rating"`
	ReviewCount int                `json:"reviewCount"`
	Featured    bool               `json:"featured"`
	IsActive    *bool              `json:"isActive"`
	CreatedAt   *time.Time         `json:"createdAt"`
}

// CreateProduct validates and stores a new listing. The vendor
// reference must resolve to a known vendor; the category is registered
// on first use.
func (s *ProductManagementService) CreateProduct(input *ProductInput) (*models.Product, error) {
	if input.Vendor.ID == "" {
		return nil, utils.ErrVendorNotFound
	}
	if input.Category.Name == "" {
		return nil, utils.ErrCategoryNotFound
	}

	vendor, err := resolveVendor(s.vendorRepo, input.Vendor.ID)
	if err != nil {
		return nil, err
	}

	slug := input.Category.Slug
	if slug == "" {
		slug = slugify(input.Category.Name)
	}
	if err := s.categoryRepo.Upsert(input.Category.Name, slug); err != nil {
		log.Error().Err(err).Str("category", input.Category.Name).Msg("Failed to register category")
		return nil, err
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	createdAt := time.Now()
	if input.CreatedAt != nil && !input.CreatedAt.IsZero() {
		createdAt = *input.CreatedAt
	}

	product := &models.Product{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		VendorID:    vendor.ID,
		Category:    input.Category.Name,
		ImageURL:    input.ImageURL,
		Views:       input.Views,
		Rating:      input.Rating,
		ReviewCount: input.ReviewCount,
		Featured:    input.Featured,
		IsActive:    active,
		CreatedAt:   createdAt,
	}

	if err := s.productRepo.Create(product); err != nil {
		log.Error().Err(err).Str("name", product.Name).Msg("Failed to create product")
		return nil, err
	}
	return product, nil
}

// ImportResult reports the outcome of one item in a bulk import.
type ImportResult struct {
	Index     int    `json:"index"`
	ProductID string `json:"productId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ImportProducts ingests a batch of listings, continuing past
// per-item failures. Returns one result per input item.
func (s *ProductManagementService) ImportProducts(inputs []ProductInput) []ImportResult {
	results := make([]ImportResult, len(inputs))
	for i := range inputs {
		results[i].Index = i
		product, err := s.CreateProduct(&inputs[i])
		if err != nil {
			results[i].Error = err.Error()
			continue
		}
		results[i].ProductID = product.ID
	}
	return results
}

// UpdateProductRequest carries partial updates for a listing.
type UpdateProductRequest struct {
	Name        *string             `json:"name"`
	Description *string             `json:"description"`
	Price       *float64            `json:"price"`
	Stock       *int                `json:"stock"`
	Category    *models.CategoryRef `json:"category"`
	ImageURL    *string             `json:"imageUrl"`
	Featured    *bool               `json:"featured"`
	IsActive    *bool               `json:"isActive"`
}

// UpdateProduct applies the provided fields to an existing listing.
func (s *ProductManagementService) UpdateProduct(id string, req *UpdateProductRequest) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, utils.ErrInvalidAmount
		}
		product.Price = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, utils.ErrInvalidAmount
		}
		product.Stock = *req.Stock
	}
	if req.Category != nil {
		if req.Category.Name == "" {
			return nil, utils.ErrCategoryNotFound
		}
		slug := req.Category.Slug
		if slug == "" {
			slug = slugify(req.Category.Name)
		}
		if err := s.categoryRepo.Upsert(req.Category.Name, slug); err != nil {
			return nil, err
		}
		product.Category = req.Category.Name
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.Featured != nil {
		product.Featured = *req.Featured
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a listing.
func (s *ProductManagementService) DeleteProduct(id string) error {
	err := s.productRepo.Delete(id)
	if errors.Is(err, sql.ErrNoRows) {
		return utils.ErrProductNotFound
	}
	return err
}

// ListProducts returns listings for the admin panel, including
// inactive ones.
func (s *ProductManagementService) ListProducts(filter *repository.BrowseFilter) ([]models.Product, int, error) {
	filter.IncludeInactive = true
	return s.productRepo.Browse(filter)
}

// CreateVendorRequest is the payload for registering a vendor.
type CreateVendorRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Verified    bool   `json:"verified"`

	BankCode          *string `json:"bankCode"`
	BankAccountNumber *string `json:"bankAccountNumber"`
	BankAccountName   *string `json:"bankAccountName"`
}

// CreateVendor registers a new vendor account.
func (s *ProductManagementService) CreateVendor(req *CreateVendorRequest) (*models.Vendor, error) {
	slug := req.Slug
	if slug == "" {
		slug = slugify(req.Name)
	}
	vendor := &models.Vendor{
		ID:          uuid.New().String(),
		Slug:        slug,
		Name:        req.Name,
		Description: req.Description,
		Verified:    req.Verified,

		BankCode:          req.BankCode,
		BankAccountNumber: req.BankAccountNumber,
		BankAccountName:   req.BankAccountName,
	}
	if err := s.vendorRepo.Create(vendor); err != nil {
		log.Error().Err(err).Str("slug", slug).Msg("Failed to create vendor")
		return nil, err
	}
	return vendor, nil
}

// slugify lowercases and dash-separates a display name.
func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
