package lpxpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// Client is a minimal HTTP client for the LPX Pay disbursement API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	merchantID string
	apiSecret  string
	debug      bool
}

// NewClient constructs a new LPX Pay client with sane defaults.
func NewClient(baseURL, merchantID, apiSecret string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		merchantID: merchantID,
		apiSecret:  apiSecret,
		debug:      os.Getenv("ENV") == "development",
	}
}

// sign generates an HMAC-SHA256 hex digest over the request payload.
// sign = hmac_sha256(apiSecret, merchantID + payload)
func (c *Client) sign(payload []byte) string {
	mac := hmac.New(sha256.New, []byte(c.apiSecret))
	mac.Write([]byte(c.merchantID))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Disburse initiates a payout to a vendor's bank account. The refID is
// the caller's idempotency key; re-sending the same refID returns the
// existing disbursement instead of creating a new one.
func (c *Client) Disburse(ctx context.Context, refID, bankCode, accountNumber, accountName string, amount float64) (*DisbursementResponse, error) {
	req := DisbursementRequest{
		MerchantID:    c.merchantID,
		RefID:         refID,
		BankCode:      bankCode,
		AccountNumber: accountNumber,
		AccountName:   accountName,
		Amount:        amount,
	}
	var wrapper DisbursementResponseWrapper
	if err := c.doRequest(ctx, "/disbursements", req, &wrapper); err != nil {
		return nil, err
	}
	return &wrapper.Data, nil
}

// GetDisbursement checks the status of an existing disbursement.
func (c *Client) GetDisbursement(ctx context.Context, refID string) (*DisbursementResponse, error) {
	req := StatusRequest{
		MerchantID: c.merchantID,
		RefID:      refID,
	}
	var wrapper DisbursementResponseWrapper
	if err := c.doRequest(ctx, "/disbursements/status", req, &wrapper); err != nil {
		return nil, err
	}
	return &wrapper.Data, nil
}

// GetBalance returns the merchant's remaining disbursement balance.
func (c *Client) GetBalance(ctx context.Context) (*BalanceResponse, error) {
	req := BalanceRequest{MerchantID: c.merchantID}
	var resp BalanceResponse
	if err := c.doRequest(ctx, "/balance", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// doRequest performs the HTTP POST to the LPX Pay API with JSON payloads
// and decodes the JSON response into result.
func (c *Client) doRequest(ctx context.Context, endpoint string, body any, result any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", c.baseURL+endpoint).
			RawJSON("request", payload).
			Msg("[LPXPAY] Outgoing request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Merchant-Id", c.merchantID)
	req.Header.Set("X-Signature", c.sign(payload))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			RawJSON("response", respBody).
			Msg("[LPXPAY] Incoming response")
	}

	// LPX Pay returns 200 with the outcome encapsulated in JSON, but
	// decode regardless of status code to surface any error message.
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
