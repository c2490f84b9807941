package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/lpxcollect/lpx_api/internal/repository"
	"github.com/lpxcollect/lpx_api/internal/service"
	"github.com/lpxcollect/lpx_api/internal/utils"
)

// VendorHandler handles vendor directory and statistics HTTP endpoints.
type VendorHandler struct {
	vendorService *service.VendorService
	statsService  *service.VendorStatsService
}

// NewVendorHandler constructs a VendorHandler.
func NewVendorHandler(vendorService *service.VendorService, statsService *service.VendorStatsService) *VendorHandler {
	return &VendorHandler{vendorService: vendorService, statsService: statsService}
}

// GetVendors handles GET /v1/vendors
func (h *VendorHandler) GetVendors(c *gin.Context) {
	filter := &repository.VendorFilter{
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 20),
	}
	if v := c.Query("verified"); v != "" {
		verified := v == "true"
		filter.Verified = &verified
	}

	vendors, total, err := h.vendorService.ListVendors(filter)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to fetch vendors")
		return
	}

	utils.SuccessWithPagination(c, 200, "Vendors retrieved successfully", gin.H{
		"vendors": vendors,
	}, filter.Page, filter.Limit, total)
}

// GetVendor handles GET /v1/vendors/:id (id or slug)
func (h *VendorHandler) GetVendor(c *gin.Context) {
	vendor, err := h.vendorService.GetVendor(c.Param("id"))
	if err != nil {
		if errors.Is(err, utils.ErrVendorNotFound) {
			utils.Error(c, 404, "VENDOR_NOT_FOUND", "Vendor not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to fetch vendor")
		return
	}

	utils.Success(c, 200, "Vendor retrieved successfully", vendor)
}

// GetVendorProducts handles GET /v1/vendors/:id/products
func (h *VendorHandler) GetVendorProducts(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)

	products, total, err := h.vendorService.GetVendorProducts(c.Param("id"), page, limit)
	if err != nil {
		if errors.Is(err, utils.ErrVendorNotFound) {
			utils.Error(c, 404, "VENDOR_NOT_FOUND", "Vendor not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to fetch vendor products")
		return
	}

	utils.SuccessWithPagination(c, 200, "Products retrieved successfully", gin.H{
		"products": products,
	}, page, limit, total)
}

// GetVendorStats handles GET /v1/vendors/:id/stats
// Stats are always computed fresh from live data, never cached.
func (h *VendorHandler) GetVendorStats(c *gin.Context) {
	result, err := h.statsService.GetVendorStats(c.Param("id"))
	if err != nil {
		if errors.Is(err, utils.ErrVendorNotFound) {
			utils.Error(c, 404, "VENDOR_NOT_FOUND", "Vendor not found")
			return
		}
		log.Error().Err(err).Str("vendor", c.Param("id")).Msg("Failed to compute vendor stats")
		utils.Error(c, 500, "FETCH_ERROR", "Failed to fetch vendor statistics")
		return
	}

	utils.Success(c, 200, "Vendor statistics retrieved successfully", result)
}

// queryInt parses an integer query parameter with a fallback.
func queryInt(c *gin.Context, name string, fallback int) int {
	if v := c.Query(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
