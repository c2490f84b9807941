package service

import (
	"database/sql"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lpxcollect/lpx_api/internal/models"
	"github.com/lpxcollect/lpx_api/internal/utils"
)

type fakeOrderStore struct {
	orders  []*models.Order
	items   []models.OrderItem
	commits int
	nextID  int
}

func (f *fakeOrderStore) InTx(fn func(tx *sqlx.Tx) error) error {
	if err := fn(nil); err != nil {
		return err
	}
	f.commits++
	return nil
}

func (f *fakeOrderStore) Insert(_ *sqlx.Tx, o *models.Order) error {
	f.nextID++
	o.ID = f.nextID
	f.orders = append(f.orders, o)
	return nil
}

func (f *fakeOrderStore) InsertItem(_ *sqlx.Tx, item *models.OrderItem) error {
	f.items = append(f.items, *item)
	return nil
}

func (f *fakeOrderStore) GetByOrderID(orderID string) (*models.Order, error) {
	for _, o := range f.orders {
		if o.OrderID == orderID {
			return o, nil
		}
	}
	return nil, sql.ErrNoRows
}

type fakeStock struct {
	products map[string]*models.Product
}

func (f *fakeStock) GetForUpdate(_ *sqlx.Tx, id string) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStock) DecrementStock(_ *sqlx.Tx, id string, qty int) error {
	p, ok := f.products[id]
	if !ok || p.Stock < qty {
		return sql.ErrNoRows
	}
	p.Stock -= qty
	return nil
}

type fakeSales struct {
	totals map[string]int
}

func (f *fakeSales) IncrementTotalSales(_ *sqlx.Tx, id string, delta int) error {
	f.totals[id] += delta
	return nil
}

type recordingNotifier struct {
	orders []*models.Order
}

func (n *recordingNotifier) NotifyOrderCreated(o *models.Order) {
	n.orders = append(n.orders, o)
}

func (n *recordingNotifier) NotifyPaymentRequestSettled(_ *models.PaymentRequest) {}

func newCheckoutFixture() (*OrderService, *fakeOrderStore, *fakeStock, *fakeSales, *recordingNotifier) {
	orders := &fakeOrderStore{}
	stock := &fakeStock{products: map[string]*models.Product{
		"p1": {ID: "p1", VendorID: "v1", Name: "Charizard Holo", Price: 100.00, Stock: 3, IsActive: true},
		"p2": {ID: "p2", VendorID: "v1", Name: "Pikachu Promo", Price: 25.50, Stock: 10, IsActive: true},
		"p3": {ID: "p3", VendorID: "v2", Name: "Boba Fett Figure", Price: 60.00, Stock: 1, IsActive: true},
		"p4": {ID: "p4", VendorID: "v2", Name: "Retired Poster", Price: 15.00, Stock: 5, IsActive: false},
	}}
	sales := &fakeSales{totals: make(map[string]int)}
	notifier := &recordingNotifier{}
	return NewOrderService(orders, stock, sales, notifier), orders, stock, sales, notifier
}

func TestCreateOrderSnapshotsPricesAndDecrementsStock(t *testing.T) {
	svc, orders, stock, _, notifier := newCheckoutFixture()

	order, err := svc.CreateOrder(&models.Client{ID: 7}, &CreateOrderRequest{Items: []OrderItemRequest{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p3", Quantity: 1},
	}})
	require.NoError(t, err)

	assert.Equal(t, 7, order.ClientID)
	assert.Equal(t, models.OrderStatusCompleted, order.Status)
	assert.NotEmpty(t, order.OrderID)
	assert.InDelta(t, 260.00, order.Subtotal, 1e-9)

	require.Len(t, order.Items, 2)
	assert.Equal(t, "Charizard Holo", order.Items[0].ProductName)
	assert.InDelta(t, 100.00, order.Items[0].UnitPrice, 1e-9)
	assert.InDelta(t, 200.00, order.Items[0].LineTotal, 1e-9)
	assert.Equal(t, order.ID, order.Items[0].OrderID)

	assert.Equal(t, 1, stock.products["p1"].Stock)
	assert.Equal(t, 0, stock.products["p3"].Stock)
	assert.Equal(t, 1, orders.commits)
	require.Len(t, notifier.orders, 1)
	assert.Equal(t, order.OrderID, notifier.orders[0].OrderID)
}

func TestCreateOrderRejections(t *testing.T) {
	tests := []struct {
		name  string
		items []OrderItemRequest
		want  error
	}{
		{"unknown product", []OrderItemRequest{{ProductID: "ghost", Quantity: 1}}, utils.ErrProductNotFound},
		{"inactive product", []OrderItemRequest{{ProductID: "p4", Quantity: 1}}, utils.ErrProductInactive},
		{"insufficient stock", []OrderItemRequest{{ProductID: "p1", Quantity: 4}}, utils.ErrInsufficientStock},
		{"stock exhausted across lines", []OrderItemRequest{{ProductID: "p3", Quantity: 1}, {ProductID: "p3", Quantity: 1}}, utils.ErrInsufficientStock},
		{"zero quantity", []OrderItemRequest{{ProductID: "p1", Quantity: 0}}, utils.ErrInvalidAmount},
		{"no items", nil, utils.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, orders, _, sales, notifier := newCheckoutFixture()

			_, err := svc.CreateOrder(&models.Client{ID: 1}, &CreateOrderRequest{Items: tt.items})
			assert.ErrorIs(t, err, tt.want)

			// Nothing commits on a rejected checkout.
			assert.Empty(t, orders.orders)
			assert.Zero(t, orders.commits)
			assert.Empty(t, sales.totals)
			assert.Empty(t, notifier.orders)
		})
	}
}

func TestCreateOrderRollsSalesPerVendor(t *testing.T) {
	svc, _, _, sales, _ := newCheckoutFixture()

	_, err := svc.CreateOrder(&models.Client{ID: 1}, &CreateOrderRequest{Items: []OrderItemRequest{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 3},
		{ProductID: "p3", Quantity: 1},
	}})
	require.NoError(t, err)

	// Units aggregate per vendor, not per line.
	assert.Equal(t, map[string]int{"v1": 5, "v2": 1}, sales.totals)
}

func TestGetOrderScopedToClient(t *testing.T) {
	svc, orders, _, _, _ := newCheckoutFixture()
	orders.orders = []*models.Order{{ID: 1, OrderID: "ord-1", ClientID: 7}}

	got, err := svc.GetOrder(7, "ord-1")
	require.NoError(t, err)
	assert.Equal(t, "ord-1", got.OrderID)

	_, err = svc.GetOrder(8, "ord-1")
	assert.ErrorIs(t, err, utils.ErrOrderNotFound)

	_, err = svc.GetOrder(7, "missing")
	assert.ErrorIs(t, err, utils.ErrOrderNotFound)
}
