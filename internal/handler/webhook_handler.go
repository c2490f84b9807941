package handler

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/lpxcollect/lpx_api/internal/service"
	"github.com/lpxcollect/lpx_api/internal/sse"
	"github.com/lpxcollect/lpx_api/internal/utils"
	"github.com/lpxcollect/lpx_api/pkg/lpxpay"
)

// WebhookHandler handles incoming webhooks from the LPX Pay gateway.
type WebhookHandler struct {
	paymentService *service.PaymentRequestService
	notifier       sse.OrderNotifier
	webhookSecret  string
}

// NewWebhookHandler constructs a WebhookHandler.
func NewWebhookHandler(paymentService *service.PaymentRequestService, notifier sse.OrderNotifier, webhookSecret string) *WebhookHandler {
	return &WebhookHandler{paymentService: paymentService, notifier: notifier, webhookSecret: webhookSecret}
}

// payoutCallback is the LPX Pay disbursement webhook payload.
type payoutCallback struct {
	DisbursementID string `json:"disbursement_id"`
	RefID          string `json:"ref_id"`
	Status         string `json:"status"`
	Message        string `json:"message"`
}

// HandleLPXPayCallback handles POST /webhook/lpxpay
func (h *WebhookHandler) HandleLPXPayCallback(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid body"})
		return
	}

	// Reject anything not signed with our webhook secret.
	signature := c.GetHeader("X-Signature")
	if !utils.VerifySignature(body, signature, h.webhookSecret) {
		log.Warn().Str("ip", c.ClientIP()).Msg("LPX Pay webhook signature mismatch")
		c.JSON(401, gin.H{"error": "Invalid signature"})
		return
	}

	var payload payoutCallback
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(400, gin.H{"error": "Invalid JSON"})
		return
	}
	if payload.DisbursementID == "" {
		c.JSON(400, gin.H{"error": "Missing disbursement_id"})
		return
	}

	pr, err := h.paymentService.Settle(payload.DisbursementID, payload.Status == lpxpay.StatusCompleted)
	if err != nil {
		if errors.Is(err, utils.ErrPaymentReqNotFound) {
			// Unknown or already-settled reference. Acknowledge so the
			// gateway stops retrying.
			c.JSON(200, gin.H{"received": true})
			return
		}
		log.Error().Err(err).Str("disbursement_id", payload.DisbursementID).Msg("Failed to settle payout")
		c.JSON(500, gin.H{"error": "Processing failed"})
		return
	}

	h.notifier.NotifyPaymentRequestSettled(pr)
	c.JSON(200, gin.H{"received": true})
}
