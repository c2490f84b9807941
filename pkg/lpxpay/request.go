package lpxpay

// DisbursementRequest initiates a payout.
type DisbursementRequest struct {
	MerchantID    string  `json:"merchant_id"`
	RefID         string  `json:"ref_id"`
	BankCode      string  `json:"bank_code"`
	AccountNumber string  `json:"account_number"`
	AccountName   string  `json:"account_name"`
	Amount        float64 `json:"amount"`
}

// StatusRequest checks a disbursement by reference.
type StatusRequest struct {
	MerchantID string `json:"merchant_id"`
	RefID      string `json:"ref_id"`
}

// BalanceRequest queries the merchant balance.
type BalanceRequest struct {
	MerchantID string `json:"merchant_id"`
}
