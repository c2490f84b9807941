package service

import (
	"database/sql"
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lpxcollect/lpx_api/internal/models"
	"github.com/lpxcollect/lpx_api/internal/utils"
)

// PayoutLedger is the persistence surface for payout requests.
type PayoutLedger interface {
	Create(pr *models.PaymentRequest) error
	GetByID(id string) (*models.PaymentRequest, error)
	GetByVendor(vendorID string) ([]models.PaymentRequest, error)
	GetAllPaged(status string, page, limit int) ([]models.PaymentRequest, int, error)
	Review(id string, status models.PaymentRequestStatus, notes *string) error
	Settle(payoutRef string, status models.PaymentRequestStatus) (*models.PaymentRequest, error)
	SumOutstandingByVendor(vendorID string) (float64, error)
}

// RevenueReader reports a vendor's gross completed-order revenue.
type RevenueReader interface {
	VendorRevenue(vendorID string) (float64, error)
}

// PaymentRequestService handles vendor payout requests and the
// platform commission taken on them.
type PaymentRequestService struct {
	payments       PayoutLedger
	revenue        RevenueReader
	vendors        VendorFinder
	commissionRate float64
}

// NewPaymentRequestService constructs a PaymentRequestService.
func NewPaymentRequestService(
	payments PayoutLedger,
	revenue RevenueReader,
	vendors VendorFinder,
	commissionRate float64,
) *PaymentRequestService {
	return &PaymentRequestService{
		payments:       payments,
		revenue:        revenue,
		vendors:        vendors,
		commissionRate: commissionRate,
	}
}

// CreatePaymentRequestBody is the payout request payload.
type CreatePaymentRequestBody struct {
	VendorID string  `json:"vendorId" binding:"required"`
	Amount   float64 `json:"amount" binding:"required"`
	Notes    *string `json:"notes"`
}

// CommissionBreakdown splits a payout amount into the platform fee and
// the vendor's net, rounded to cents.
type CommissionBreakdown struct {
	Rate float64
	Fee  float64
	Net  float64
}

// CalculateCommission computes the platform cut for a payout amount.
func CalculateCommission(amount, rate float64) CommissionBreakdown {
	fee := round2(amount * rate)
	return CommissionBreakdown{
		Rate: rate,
		Fee:  fee,
		Net:  round2(amount - fee),
	}
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Create validates a payout request against the vendor's available
// balance (gross completed-order revenue minus gross outstanding
// requests; commission comes out of each payout's net, not the
// balance) and freezes the commission terms at the current platform
// rate.
func (s *PaymentRequestService) Create(body *CreatePaymentRequestBody) (*models.PaymentRequest, error) {
	if body.Amount <= 0 {
		return nil, utils.ErrInvalidAmount
	}

	vendor, err := resolveVendor(s.vendors, body.VendorID)
	if err != nil {
		return nil, err
	}

	available, err := s.AvailableBalance(vendor.ID)
	if err != nil {
		return nil, err
	}
	if body.Amount > available {
		return nil, utils.ErrInsufficientBalance
	}

	commission := CalculateCommission(body.Amount, s.commissionRate)
	pr := &models.PaymentRequest{
		ID:             "pr_" + uuid.New().String(),
		VendorID:       vendor.ID,
		Amount:         body.Amount,
		CommissionRate: commission.Rate,
		CommissionFee:  commission.Fee,
		NetAmount:      commission.Net,
		Status:         models.PaymentRequestPending,
		Notes:          body.Notes,
	}
	if err := s.payments.Create(pr); err != nil {
		log.Error().Err(err).Str("vendor_id", vendor.ID).Msg("Failed to create payment request")
		return nil, err
	}

	log.Info().
		Str("payment_request_id", pr.ID).
		Str("vendor_id", vendor.ID).
		Float64("amount", pr.Amount).
		Float64("net", pr.NetAmount).
		Msg("Payment request created")
	return pr, nil
}

// AvailableBalance returns what a vendor can still request: gross
// completed-order revenue minus everything already requested and not
// rejected or failed.
func (s *PaymentRequestService) AvailableBalance(vendorID string) (float64, error) {
	revenue, err := s.revenue.VendorRevenue(vendorID)
	if err != nil {
		return 0, err
	}
	outstanding, err := s.payments.SumOutstandingByVendor(vendorID)
	if err != nil {
		return 0, err
	}
	return round2(revenue - outstanding), nil
}

// BalanceFor resolves a vendor by id or slug and returns its
// available balance.
func (s *PaymentRequestService) BalanceFor(vendorIDOrSlug string) (float64, error) {
	vendor, err := resolveVendor(s.vendors, vendorIDOrSlug)
	if err != nil {
		return 0, err
	}
	return s.AvailableBalance(vendor.ID)
}

// ListByVendor returns a vendor's payout requests.
func (s *PaymentRequestService) ListByVendor(vendorIDOrSlug string) ([]models.PaymentRequest, error) {
	vendor, err := resolveVendor(s.vendors, vendorIDOrSlug)
	if err != nil {
		return nil, err
	}
	return s.payments.GetByVendor(vendor.ID)
}

// ListAll returns payout requests for admin review, optionally
// filtered by status.
func (s *PaymentRequestService) ListAll(status string, page, limit int) ([]models.PaymentRequest, int, error) {
	return s.payments.GetAllPaged(status, page, limit)
}

// Review transitions a pending request to approved or rejected.
func (s *PaymentRequestService) Review(id string, approve bool, notes *string) (*models.PaymentRequest, error) {
	if _, err := s.payments.GetByID(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrPaymentReqNotFound
		}
		return nil, err
	}

	status := models.PaymentRequestRejected
	if approve {
		status = models.PaymentRequestApproved
	}
	if err := s.payments.Review(id, status, notes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrPaymentReqNotPending
		}
		return nil, err
	}
	return s.payments.GetByID(id)
}

// Settle finalizes a processing request from a gateway webhook, keyed
// by the disbursement reference.
func (s *PaymentRequestService) Settle(payoutRef string, success bool) (*models.PaymentRequest, error) {
	status := models.PaymentRequestFailed
	if success {
		status = models.PaymentRequestPaid
	}
	pr, err := s.payments.Settle(payoutRef, status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrPaymentReqNotFound
		}
		return nil, err
	}

	log.Info().
		Str("payment_request_id", pr.ID).
		Str("payout_ref", payoutRef).
		Str("status", string(pr.Status)).
		Msg("Payment request settled")
	return pr, nil
}
