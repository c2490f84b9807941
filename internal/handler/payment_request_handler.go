package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/lpxcollect/lpx_api/internal/service"
	"github.com/lpxcollect/lpx_api/internal/utils"
)

// PaymentRequestHandler handles vendor payout request HTTP endpoints,
// both the vendor-facing surface and the admin review surface.
type PaymentRequestHandler struct {
	paymentService *service.PaymentRequestService
}

// NewPaymentRequestHandler constructs a PaymentRequestHandler.
func NewPaymentRequestHandler(paymentService *service.PaymentRequestService) *PaymentRequestHandler {
	return &PaymentRequestHandler{paymentService: paymentService}
}

// CreatePaymentRequest handles POST /v1/vendor/payment-requests
func (h *PaymentRequestHandler) CreatePaymentRequest(c *gin.Context) {
	var req service.CreatePaymentRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	pr, err := h.paymentService.Create(&req)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrVendorNotFound):
			utils.Error(c, 404, "VENDOR_NOT_FOUND", "Vendor not found")
		case errors.Is(err, utils.ErrInvalidAmount):
			utils.Error(c, 400, "INVALID_AMOUNT", "Amount must be greater than zero")
		case errors.Is(err, utils.ErrInsufficientBalance):
			utils.Error(c, 422, "INSUFFICIENT_BALANCE", "Requested amount exceeds available balance")
		default:
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create payment request")
		}
		return
	}

	utils.Success(c, 201, "Payment request created successfully", pr)
}

// GetVendorPaymentRequests handles GET /v1/vendor/payment-requests?vendor=<id-or-slug>
func (h *PaymentRequestHandler) GetVendorPaymentRequests(c *gin.Context) {
	vendor := c.Query("vendor")
	if vendor == "" {
		utils.Error(c, 400, "INVALID_REQUEST", "vendor query parameter is required")
		return
	}

	requests, err := h.paymentService.ListByVendor(vendor)
	if err != nil {
		if errors.Is(err, utils.ErrVendorNotFound) {
			utils.Error(c, 404, "VENDOR_NOT_FOUND", "Vendor not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to fetch payment requests")
		return
	}

	utils.Success(c, 200, "Payment requests retrieved successfully", gin.H{
		"paymentRequests": requests,
		"total":           len(requests),
	})
}

// GetVendorBalance handles GET /v1/vendor/balance?vendor=<id-or-slug>
func (h *PaymentRequestHandler) GetVendorBalance(c *gin.Context) {
	vendor := c.Query("vendor")
	if vendor == "" {
		utils.Error(c, 400, "INVALID_REQUEST", "vendor query parameter is required")
		return
	}

	balance, err := h.paymentService.BalanceFor(vendor)
	if err != nil {
		if errors.Is(err, utils.ErrVendorNotFound) {
			utils.Error(c, 404, "VENDOR_NOT_FOUND", "Vendor not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to compute balance")
		return
	}

	utils.Success(c, 200, "Balance retrieved successfully", gin.H{
		"availableBalance": balance,
	})
}

// ListPaymentRequests handles GET /v1/admin/payment-requests
func (h *PaymentRequestHandler) ListPaymentRequests(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)

	requests, total, err := h.paymentService.ListAll(c.Query("status"), page, limit)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to fetch payment requests")
		return
	}

	utils.SuccessWithPagination(c, 200, "Payment requests retrieved successfully", gin.H{
		"paymentRequests": requests,
	}, page, limit, total)
}

// ReviewPaymentRequest handles POST /v1/admin/payment-requests/:id/review
func (h *PaymentRequestHandler) ReviewPaymentRequest(c *gin.Context) {
	var req struct {
		Action string  `json:"action" binding:"required,oneof=approve reject"`
		Notes  *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "action must be 'approve' or 'reject'")
		return
	}

	pr, err := h.paymentService.Review(c.Param("id"), req.Action == "approve", req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrPaymentReqNotFound):
			utils.Error(c, 404, "PAYMENT_REQUEST_NOT_FOUND", "Payment request not found")
		case errors.Is(err, utils.ErrPaymentReqNotPending):
			utils.Error(c, 422, "PAYMENT_REQUEST_NOT_PENDING", "Payment request has already been reviewed")
		default:
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to review payment request")
		}
		return
	}

	utils.Success(c, 200, "Payment request reviewed successfully", pr)
}
