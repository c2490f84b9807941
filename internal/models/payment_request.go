package models

import "time"

// PaymentRequestStatus enumerates payout request lifecycle states.
type PaymentRequestStatus string

const (
	PaymentRequestPending    PaymentRequestStatus = "pending"
	PaymentRequestApproved   PaymentRequestStatus = "approved"
	PaymentRequestRejected   PaymentRequestStatus = "rejected"
	PaymentRequestProcessing PaymentRequestStatus = "processing"
	PaymentRequestPaid       PaymentRequestStatus = "paid"
	PaymentRequestFailed     PaymentRequestStatus = "failed"
)

// PaymentRequest is a vendor payout request. The commission fields are
// frozen at creation time from the platform rate in effect.
type PaymentRequest struct {
	ID             string               `db:"id" json:"id"`
	VendorID       string               `db:"vendor_id" json:"vendorId"`
	Amount         float64              `db:"amount" json:"amount"`
	CommissionRate float64              `db:"commission_rate" json:"commissionRate"`
	CommissionFee  float64              `db:"commission_fee" json:"commissionFee"`
	NetAmount      float64              `db:"net_amount" json:"netAmount"`
	Status         PaymentRequestStatus `db:"status" json:"status"`
	Notes          *string              `db:"notes" json:"notes,omitempty"`
	PayoutRef      *string              `db:"payout_ref" json:"payoutRef,omitempty"`
	RequestedAt    time.Time            `db:"requested_at" json:"requestedAt"`
	ReviewedAt     *time.Time           `db:"reviewed_at" json:"reviewedAt,omitempty"`
	SettledAt      *time.Time           `db:"settled_at" json:"settledAt,omitempty"`
}
