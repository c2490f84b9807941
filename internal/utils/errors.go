package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidToken         = errors.New("INVALID_TOKEN")
	ErrInvalidClient        = errors.New("INVALID_CLIENT")
	ErrInvalidIP            = errors.New("INVALID_IP")
	ErrVendorNotFound       = errors.New("VENDOR_NOT_FOUND")
	ErrProductNotFound      = errors.New("PRODUCT_NOT_FOUND")
	ErrOrderNotFound        = errors.New("ORDER_NOT_FOUND")
	ErrCategoryNotFound     = errors.New("CATEGORY_NOT_FOUND")
	ErrProductInactive      = errors.New("PRODUCT_INACTIVE")
	ErrInsufficientStock    = errors.New("INSUFFICIENT_STOCK")
	ErrInsufficientBalance  = errors.New("INSUFFICIENT_BALANCE")
	ErrPaymentReqNotFound   = errors.New("PAYMENT_REQUEST_NOT_FOUND")
	ErrPaymentReqNotPending = errors.New("PAYMENT_REQUEST_NOT_PENDING")
	ErrInvalidAmount        = errors.New("INVALID_AMOUNT")
)
