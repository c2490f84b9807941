package service

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lpxcollect/lpx_api/internal/models"
	"github.com/lpxcollect/lpx_api/internal/utils"
)

type fakePayoutLedger struct {
	created     []*models.PaymentRequest
	outstanding map[string]float64
}

func (f *fakePayoutLedger) Create(pr *models.PaymentRequest) error {
	f.created = append(f.created, pr)
	return nil
}

func (f *fakePayoutLedger) GetByID(id string) (*models.PaymentRequest, error) {
	for _, pr := range f.created {
		if pr.ID == id {
			return pr, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakePayoutLedger) GetByVendor(vendorID string) ([]models.PaymentRequest, error) {
	var out []models.PaymentRequest
	for _, pr := range f.created {
		if pr.VendorID == vendorID {
			out = append(out, *pr)
		}
	}
	return out, nil
}

func (f *fakePayoutLedger) GetAllPaged(string, int, int) ([]models.PaymentRequest, int, error) {
	return nil, 0, nil
}

func (f *fakePayoutLedger) Review(string, models.PaymentRequestStatus, *string) error {
	return nil
}

func (f *fakePayoutLedger) Settle(string, models.PaymentRequestStatus) (*models.PaymentRequest, error) {
	return nil, sql.ErrNoRows
}

func (f *fakePayoutLedger) SumOutstandingByVendor(vendorID string) (float64, error) {
	return f.outstanding[vendorID], nil
}

type fakeRevenue struct {
	byVendor map[string]float64
}

func (f *fakeRevenue) VendorRevenue(vendorID string) (float64, error) {
	return f.byVendor[vendorID], nil
}

func newPayoutFixture(revenue, outstanding float64) (*PaymentRequestService, *fakePayoutLedger) {
	ledger := &fakePayoutLedger{outstanding: map[string]float64{"v1": outstanding}}
	rev := &fakeRevenue{byVendor: map[string]float64{"v1": revenue}}
	vendors := &fakeVendorStore{vendors: []models.Vendor{{ID: "v1", Slug: "alpha-cards"}}}
	return NewPaymentRequestService(ledger, rev, vendors, 0.10), ledger
}

func TestCreatePaymentRequestRejectsAmountOverBalance(t *testing.T) {
	// Revenue 500 minus 350 outstanding leaves 150 available.
	svc, ledger := newPayoutFixture(500, 350)

	_, err := svc.Create(&CreatePaymentRequestBody{VendorID: "v1", Amount: 150.01})
	assert.ErrorIs(t, err, utils.ErrInsufficientBalance)
	assert.Empty(t, ledger.created)

	pr, err := svc.Create(&CreatePaymentRequestBody{VendorID: "v1", Amount: 150})
	require.NoError(t, err)
	assert.InDelta(t, 150.0, pr.Amount, 1e-9)
}

func TestCreatePaymentRequestFreezesCommission(t *testing.T) {
	svc, ledger := newPayoutFixture(1000, 0)

	pr, err := svc.Create(&CreatePaymentRequestBody{VendorID: "alpha-cards", Amount: 100})
	require.NoError(t, err)

	assert.Equal(t, "v1", pr.VendorID)
	assert.True(t, strings.HasPrefix(pr.ID, "pr_"))
	assert.Equal(t, models.PaymentRequestPending, pr.Status)
	assert.InDelta(t, 0.10, pr.CommissionRate, 1e-9)
	assert.InDelta(t, 10.00, pr.CommissionFee, 1e-9)
	assert.InDelta(t, 90.00, pr.NetAmount, 1e-9)
	require.Len(t, ledger.created, 1)
}

func TestCreatePaymentRequestRejectsNonPositiveAmount(t *testing.T) {
	svc, ledger := newPayoutFixture(1000, 0)

	_, err := svc.Create(&CreatePaymentRequestBody{VendorID: "v1", Amount: 0})
	assert.ErrorIs(t, err, utils.ErrInvalidAmount)

	_, err = svc.Create(&CreatePaymentRequestBody{VendorID: "v1", Amount: -5})
	assert.ErrorIs(t, err, utils.ErrInvalidAmount)
	assert.Empty(t, ledger.created)
}

func TestCreatePaymentRequestUnknownVendor(t *testing.T) {
	svc, ledger := newPayoutFixture(1000, 0)

	_, err := svc.Create(&CreatePaymentRequestBody{VendorID: "nobody", Amount: 10})
	assert.ErrorIs(t, err, utils.ErrVendorNotFound)
	assert.Empty(t, ledger.created)
}

func TestAvailableBalance(t *testing.T) {
	svc, _ := newPayoutFixture(100.25, 50)

	balance, err := svc.AvailableBalance("v1")
	require.NoError(t, err)
	assert.InDelta(t, 50.25, balance, 1e-9)

	// BalanceFor accepts the slug and lands on the same vendor.
	balance, err = svc.BalanceFor("alpha-cards")
	require.NoError(t, err)
	assert.InDelta(t, 50.25, balance, 1e-9)

	_, err = svc.BalanceFor("nobody")
	assert.ErrorIs(t, err, utils.ErrVendorNotFound)
}

func TestCalculateCommission(t *testing.T) {
	b := CalculateCommission(100, 0.10)
	assert.InDelta(t, 10.0, b.Fee, 1e-9)
	assert.InDelta(t, 90.0, b.Net, 1e-9)
	assert.InDelta(t, 0.10, b.Rate, 1e-9)
}

func TestCalculateCommissionRoundsToCents(t *testing.T) {
	// 99.99 * 0.1 = 9.999 -> 10.00; net complements against the
	// rounded fee, not the raw product.
	b := CalculateCommission(99.99, 0.10)
	assert.InDelta(t, 10.00, b.Fee, 1e-9)
	assert.InDelta(t, 89.99, b.Net, 1e-9)
	assert.InDelta(t, b.Fee+b.Net, 99.99, 1e-9)
}

func TestCalculateCommissionZeroRate(t *testing.T) {
	b := CalculateCommission(250, 0)
	assert.Zero(t, b.Fee)
	assert.InDelta(t, 250.0, b.Net, 1e-9)
}

func TestRound2(t *testing.T) {
	assert.InDelta(t, 1.23, round2(1.234), 1e-9)
	assert.InDelta(t, 1.24, round2(1.238), 1e-9)
	assert.InDelta(t, -1.24, round2(-1.238), 1e-9)
	assert.Zero(t, round2(0))
}
