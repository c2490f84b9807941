package service

import (
	"github.com/rs/zerolog/log"

	"github.com/lpxcollect/lpx_api/internal/models"
	"github.com/lpxcollect/lpx_api/internal/repository"
)

// VendorService handles the public vendor directory.
type VendorService struct {
	vendorRepo  *repository.VendorRepository
	productRepo *repository.ProductRepository
}

// NewVendorService constructs a VendorService.
func NewVendorService(vendorRepo *repository.VendorRepository, productRepo *repository.ProductRepository) *VendorService {
	return &VendorService{vendorRepo: vendorRepo, productRepo: productRepo}
}

// ListVendors returns vendors matching the filter with total count.
func (s *VendorService) ListVendors(filter *repository.VendorFilter) ([]models.Vendor, int, error) {
	vendors, total, err := s.vendorRepo.GetAllPaged(filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list vendors")
		return nil, 0, err
	}
	return vendors, total, nil
}

// GetVendor resolves a vendor by id or slug (id checked first).
func (s *VendorService) GetVendor(idOrSlug string) (*models.Vendor, error) {
	return resolveVendor(s.vendorRepo, idOrSlug)
}

// GetVendorProducts returns a vendor's active products, paged.
func (s *VendorService) GetVendorProducts(idOrSlug string, page, limit int) ([]models.Product, int, error) {
	vendor, err := resolveVendor(s.vendorRepo, idOrSlug)
	if err != nil {
		return nil, 0, err
	}
	return s.productRepo.GetByVendorPaged(vendor.ID, page, limit)
}
