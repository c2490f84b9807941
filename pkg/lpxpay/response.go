package lpxpay

// Disbursement statuses returned by LPX Pay.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// DisbursementResponseWrapper wraps the disbursement response.
// LPX Pay always wraps the response in a "data" field.
type DisbursementResponseWrapper struct {
	Data DisbursementResponse `json:"data"`
}

// DisbursementResponse represents the outcome of a payout request.
type DisbursementResponse struct {
	RefID          string  `json:"ref_id"`
	DisbursementID string  `json:"disbursement_id"`
	BankCode       string  `json:"bank_code"`
	AccountNumber  string  `json:"account_number"`
	Amount         float64 `json:"amount"`
	Status         string  `json:"status"`
	Message        string  `json:"message,omitempty"`
}

// BalanceResponse represents the merchant balance payload.
type BalanceResponse struct {
	Data struct {
		Balance float64 `json:"balance"`
	} `json:"data"`
}
