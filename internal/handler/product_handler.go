package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lpxcollect/lpx_api/internal/repository"
	"github.com/lpxcollect/lpx_api/internal/service"
	"github.com/lpxcollect/lpx_api/internal/utils"
)

// ProductHandler handles storefront catalog HTTP endpoints.
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// GetProducts handles GET /v1/products with filters and pagination.
func (h *ProductHandler) GetProducts(c *gin.Context) {
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
	if v := c.Query("featured"); v != "" {
		featured := v == "true"
		filter.Featured = &featured
	}

	products, total, err := h.productService.Browse(filter)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to fetch products")
		return
	}

	utils.SuccessWithPagination(c, 200, "Products retrieved successfully", gin.H{
		"products": products,
	}, filter.Page, filter.Limit, total)
}

// GetProduct handles GET /v1/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, utils.ErrProductNotFound) {
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to fetch product")
		return
	}

	utils.Success(c, 200, "Product retrieved successfully", product)
}
