package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/lpxcollect/lpx_api/internal/sse"
	"github.com/lpxcollect/lpx_api/internal/utils"
)

const webhookTestSecret = "whsec_test"

func newWebhookRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	// Requests rejected before settlement never touch the service.
	h := NewWebhookHandler(nil, &sse.NopNotifier{}, webhookTestSecret)
	router := gin.New()
	router.POST("/webhook/lpxpay", h.HandleLPXPayCallback)
	return router
}

func postWebhook(router *gin.Engine, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook/lpxpay", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("X-Signature", signature)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	router := newWebhookRouter()
	rr := postWebhook(router, []byte(`{"disbursement_id":"dsb_1","status":"completed"}`), "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	router := newWebhookRouter()
	body := []byte(`{"disbursement_id":"dsb_1","status":"completed"}`)
	rr := postWebhook(router, body, "deadbeef")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestWebhookRejectsTamperedBody(t *testing.T) {
	router := newWebhookRouter()
	signed := []byte(`{"disbursement_id":"dsb_1","status":"completed"}`)
	sig := utils.GenerateSignature(signed, webhookTestSecret)

	tampered := []byte(`{"disbursement_id":"dsb_1","status":"failed"}`)
	rr := postWebhook(router, tampered, sig)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestWebhookRejectsMalformedJSON(t *testing.T) {
	router := newWebhookRouter()
	body := []byte(`{"disbursement_id"`)
	rr := postWebhook(router, body, utils.GenerateSignature(body, webhookTestSecret))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestWebhookRejectsMissingReference(t *testing.T) {
	router := newWebhookRouter()
	body := []byte(`{"status":"completed"}`)
	rr := postWebhook(router, body, utils.GenerateSignature(body, webhookTestSecret))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
