package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/lpxcollect/lpx_api/internal/service"
	"github.com/lpxcollect/lpx_api/internal/utils"
)

// CategoryHandler handles category HTTP endpoints.
type CategoryHandler struct {
	productService *service.ProductService
}

// NewCategoryHandler constructs a CategoryHandler.
func NewCategoryHandler(productService *service.ProductService) *CategoryHandler {
	return &CategoryHandler{productService: productService}
}

// GetCategories handles GET /v1/categories
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.productService.ListCategories()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to fetch categories")
		return
	}

	utils.Success(c, 200, "Categories retrieved successfully", gin.H{
		"categories": categories,
		"total":      len(categories),
	})
}
