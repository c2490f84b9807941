package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lpxcollect/lpx_api/internal/models"
	"github.com/lpxcollect/lpx_api/internal/repository"
	"github.com/lpxcollect/lpx_api/pkg/lpxpay"
)

// PayoutWorker submits approved payout requests to the LPX Pay
// disbursement API. The request id doubles as the gateway idempotency
// key, so a crash between submit and MarkProcessing re-submits safely.
type PayoutWorker struct {
	paymentRepo *repository.PaymentRequestRepository
	vendorRepo  *repository.VendorRepository
	gateway     *lpxpay.Client
	interval    time.Duration
}

// NewPayoutWorker constructs a PayoutWorker.
func NewPayoutWorker(
	paymentRepo *repository.PaymentRequestRepository,
	vendorRepo *repository.VendorRepository,
	gateway *lpxpay.Client,
	interval time.Duration,
) *PayoutWorker {
	return &PayoutWorker{
		paymentRepo: paymentRepo,
		vendorRepo:  vendorRepo,
		gateway:     gateway,
		interval:    interval,
	}
}

// Start begins the periodic payout loop until context is canceled.
func (w *PayoutWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting payout worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Payout worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *PayoutWorker) runOnce(ctx context.Context) {
	approved, err := w.paymentRepo.GetByStatus(models.PaymentRequestApproved)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list approved payout requests")
		return
	}

	for _, pr := range approved {
		if ctx.Err() != nil {
			return
		}
		w.disburse(ctx, &pr)
	}
}

func (w *PayoutWorker) disburse(ctx context.Context, pr *models.PaymentRequest) {
	vendor, err := w.vendorRepo.GetByID(pr.VendorID)
	if err != nil {
		log.Error().Err(err).Str("payment_request_id", pr.ID).Msg("Failed to load vendor for payout")
		return
	}
	if vendor.BankCode == nil || vendor.BankAccountNumber == nil || vendor.BankAccountName == nil {
		// Leave the request approved until ops fill in bank details.
		log.Warn().
			Str("payment_request_id", pr.ID).
			Str("vendor_id", vendor.ID).
			Msg("Vendor has no payout destination, skipping")
		return
	}

	resp, err := w.gateway.Disburse(ctx, pr.ID, *vendor.BankCode, *vendor.BankAccountNumber, *vendor.BankAccountName, pr.NetAmount)
	if err != nil {
		// Transient transport error: retry next tick with the same ref.
		log.Error().Err(err).Str("payment_request_id", pr.ID).Msg("Disbursement request failed")
		return
	}

	if resp.Status == lpxpay.StatusFailed {
		log.Warn().
			Str("payment_request_id", pr.ID).
			Str("message", resp.Message).
			Msg("Disbursement rejected by gateway")
		if err := w.paymentRepo.MarkFailed(pr.ID, resp.Message); err != nil {
			log.Error().Err(err).Str("payment_request_id", pr.ID).Msg("Failed to mark payout failed")
		}
		return
	}

	if err := w.paymentRepo.MarkProcessing(pr.ID, resp.DisbursementID); err != nil {
		log.Error().Err(err).Str("payment_request_id", pr.ID).Msg("Failed to mark payout processing")
		return
	}

	log.Info().
		Str("payment_request_id", pr.ID).
		Str("payout_ref", resp.DisbursementID).
		Float64("net_amount", pr.NetAmount).
		Msg("Payout submitted")
}
