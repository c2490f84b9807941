package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/lpxcollect/lpx_api/internal/middleware"
	"github.com/lpxcollect/lpx_api/internal/service"
	"github.com/lpxcollect/lpx_api/internal/utils"
)

// OrderHandler handles storefront order HTTP endpoints.
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateOrder handles POST /v1/orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	client := middleware.GetClient(c)
	if client == nil {
		utils.Error(c, 401, "INVALID_CLIENT", "Client not found in context")
		return
	}

	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	order, err := h.orderService.CreateOrder(client, &req)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrProductNotFound):
			utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
		case errors.Is(err, utils.ErrProductInactive):
			utils.Error(c, 422, "PRODUCT_INACTIVE", "Product is not available for purchase")
		case errors.Is(err, utils.ErrInsufficientStock):
			utils.Error(c, 409, "INSUFFICIENT_STOCK", "Not enough stock for requested quantity")
		case errors.Is(err, utils.ErrInvalidAmount):
			utils.Error(c, 400, "INVALID_REQUEST", "Order must contain at least one item")
		default:
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create order")
		}
		return
	}

	utils.Success(c, 201, "Order created successfully", order)
}

// GetOrder handles GET /v1/orders/:orderId
func (h *OrderHandler) GetOrder(c *gin.Context) {
	client := middleware.GetClient(c)
	if client == nil {
		utils.Error(c, 401, "INVALID_CLIENT", "Client not found in context")
		return
	}

	order, err := h.orderService.GetOrder(client.ID, c.Param("orderId"))
	if err != nil {
		if errors.Is(err, utils.ErrOrderNotFound) {
			utils.Error(c, 404, "ORDER_NOT_FOUND", "Order not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to fetch order")
		return
	}

	utils.Success(c, 200, "Order retrieved successfully", order)
}
