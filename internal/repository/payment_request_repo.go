package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/lpxcollect/lpx_api/internal/models"
)

// PaymentRequestRepository handles data access for vendor payout requests.
type PaymentRequestRepository struct {
	db *sqlx.DB
}

// NewPaymentRequestRepository creates a new PaymentRequestRepository.
func NewPaymentRequestRepository(db *sqlx.DB) *PaymentRequestRepository {
	return &PaymentRequestRepository{db: db}
}

// Create creates a new payout request.
func (r *PaymentRequestRepository) Create(pr *models.PaymentRequest) error {
	const q = `
        INSERT INTO payment_requests (id, vendor_id, amount, commission_rate, commission_fee, net_amount, status, notes)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING requested_at`
	return r.db.QueryRowx(q,
		pr.ID, pr.VendorID, pr.Amount, pr.CommissionRate, pr.CommissionFee, pr.NetAmount, pr.Status, pr.Notes,
	).Scan(&pr.RequestedAt)
}

// GetByID returns a payout request by id.
func (r *PaymentRequestRepository) GetByID(id string) (*models.PaymentRequest, error) {
	var pr models.PaymentRequest
	if err := r.db.Get(&pr, `SELECT * FROM payment_requests WHERE id = $1 LIMIT 1`, id); err != nil {
		return nil, err
	}
	return &pr, nil
}

// GetByVendor returns a vendor's payout requests, newest first.
func (r *PaymentRequestRepository) GetByVendor(vendorID string) ([]models.PaymentRequest, error) {
	requests := []models.PaymentRequest{}
	const q = `SELECT * FROM payment_requests WHERE vendor_id = $1 ORDER BY requested_at DESC`
	if err := r.db.Select(&requests, q, vendorID); err != nil {
		return nil, err
	}
	return requests, nil
}

// GetByStatus returns payout requests in a given status, oldest first
// so the payout worker drains fairly.
func (r *PaymentRequestRepository) GetByStatus(status models.PaymentRequestStatus) ([]models.PaymentRequest, error) {
	requests := []models.PaymentRequest{}
	const q = `SELECT * FROM payment_requests WHERE status = $1 ORDER BY requested_at ASC`
	if err := r.db.Select(&requests, q, status); err != nil {
		return nil, err
	}
	return requests, nil
}

// GetAllPaged returns payout requests for admin review.
func (r *PaymentRequestRepository) GetAllPaged(status string, page, limit int) ([]models.PaymentRequest, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	offset := (page - 1) * limit

	const baseWhere = `WHERE ($1 = '' OR status = $1)`

	var total int
	if err := r.db.Get(&total, `SELECT COUNT(1) FROM payment_requests `+baseWhere, status); err != nil {
		return nil, 0, err
	}

	requests := []models.PaymentRequest{}
	const q = `SELECT * FROM payment_requests ` + baseWhere + `
        ORDER BY requested_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.Select(&requests, q, status, limit, offset); err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// Review transitions a pending request to approved or rejected.
// Returns sql.ErrNoRows when the request is missing or not pending.
func (r *PaymentRequestRepository) Review(id string, status models.PaymentRequestStatus, notes *string) error {
	const q = `
        UPDATE payment_requests
        SET status = $2, notes = COALESCE($3, notes), reviewed_at = NOW()
        WHERE id = $1 AND status = 'pending'`
	res, err := r.db.Exec(q, id, status, notes)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// MarkProcessing records the gateway disbursement reference once the
// payout has been submitted.
func (r *PaymentRequestRepository) MarkProcessing(id, payoutRef string) error {
	const q = `
        UPDATE payment_requests SET status = 'processing', payout_ref = $2
        WHERE id = $1 AND status = 'approved'`
	_, err := r.db.Exec(q, id, payoutRef)
	return err
}

// MarkFailed fails an approved request whose disbursement could not be
// submitted to the gateway.
func (r *PaymentRequestRepository) MarkFailed(id string, reason string) error {
	const q = `
        UPDATE payment_requests SET status = 'failed', notes = $2, settled_at = NOW()
        WHERE id = $1 AND status IN ('approved', 'processing')`
	_, err := r.db.Exec(q, id, reason)
	return err
}

// Settle finalizes a processing request as paid or failed, keyed by the
// gateway disbursement reference from the webhook.
func (r *PaymentRequestRepository) Settle(payoutRef string, status models.PaymentRequestStatus) (*models.PaymentRequest, error) {
	const q = `
        UPDATE payment_requests SET status = $2, settled_at = NOW()
        WHERE payout_ref = $1 AND status = 'processing'
        RETURNING *`
	var pr models.PaymentRequest
	if err := r.db.Get(&pr, q, payoutRef, status); err != nil {
		return nil, err
	}
	return &pr, nil
}

// SumOutstandingByVendor sums the amounts of a vendor's requests that
// still count against the balance (everything except rejected and failed).
func (r *PaymentRequestRepository) SumOutstandingByVendor(vendorID string) (float64, error) {
	const q = `
        SELECT COALESCE(SUM(amount), 0) FROM payment_requests
        WHERE vendor_id = $1 AND status NOT IN ('rejected', 'failed')`
	var total float64
	if err := r.db.Get(&total, q, vendorID); err != nil {
		return 0, err
	}
	return total, nil
}
