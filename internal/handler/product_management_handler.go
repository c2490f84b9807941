package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lpxcollect/lpx_api/internal/repository"
	"github.com/lpxcollect/lpx_api/internal/service"
	"github.com/lpxcollect/lpx_api/internal/utils"
)

// ProductManagementHandler handles admin catalog management endpoints.
type ProductManagementHandler struct {
	managementService *service.ProductManagementService
}

// NewProductManagementHandler constructs a ProductManagementHandler.
func NewProductManagementHandler(managementService *service.ProductManagementService) *ProductManagementHandler {
	return &ProductManagementHandler{managementService: managementService}
}

// CreateProduct handles POST /v1/admin/products
// Vendor and category references may be bare strings or embedded objects.
func (h *ProductManagementHandler) CreateProduct(c *gin.Context) {
	var input service.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	product, err := h.managementService.CreateProduct(&input)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrVendorNotFound):
			utils.Error(c, 404, "VENDOR_NOT_FOUND", "Vendor not found")
		default:
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create product")
		}
		return
	}

	utils.Success(c, 201, "Product created successfully", product)
}

// ImportProducts handles POST /v1/admin/products/import
// Partial failures do not abort the batch; each line reports its outcome.
func (h *ProductManagementHandler) ImportProducts(c *gin.Context) {
	var inputs []service.ProductInput
	if err := c.ShouldBindJSON(&inputs); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if len(inputs) == 0 {
		utils.Error(c, 400, "INVALID_REQUEST", "Import batch is empty")
		return
	}

	results := h.managementService.ImportProducts(inputs)
	imported := 0
	for _, r := range results {
		if r.Error == "" {
			imported++
		}
	}

	utils.Success(c, 200, "Import completed", gin.H{
		"imported": imported,
		"failed":   len(results) - imported,
		"results":  results,
	})
}

// UpdateProduct handles PUT /v1/admin/products/:id
func (h *ProductManagementHandler) UpdateProduct(c *gin.Context) {
	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	product, err := h.managementService.UpdateProduct(c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, utils.ErrProductNotFound) {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update product")
		return
	}

	utils.Success(c, 200, "Product updated successfully", product)
}

// DeleteProduct handles DELETE /v1/admin/products/:id
func (h *ProductManagementHandler) DeleteProduct(c *gin.Context) {
	if err := h.managementService.DeleteProduct(c.Param("id")); err != nil {
		if errors.Is(err, utils.ErrProductNotFound) {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to delete product")
		return
	}

	utils.Success(c, 200, "Product deleted successfully", nil)
}

// ListProducts handles GET /v1/admin/products (includes hidden listings)
func (h *ProductManagementHandler) ListProducts(c *gin.Context) {
	filter := &repository.BrowseFilter{
		Category: c.Query("category"),
		VendorID: c.Query("vendor"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
		Page:     queryInt(c, "page", 1),
		Limit:    queryInt(c, "limit", 20),
	}
	if v := c.Query("minPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = &f
		}
	}
	if v := c.Query("maxPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = &f
		}
	}

	products, total, err := h.managementService.ListProducts(filter)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to fetch products")
		return
	}

	utils.SuccessWithPagination(c, 200, "Products retrieved successfully", gin.H{
		"products": products,
	}, filter.Page, filter.Limit, total)
}

// CreateVendor handles POST /v1/admin/vendors
func (h *ProductManagementHandler) CreateVendor(c *gin.Context) {
	var req service.CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	vendor, err := h.managementService.CreateVendor(&req)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create vendor")
		return
	}

	utils.Success(c, 201, "Vendor created successfully", vendor)
}
