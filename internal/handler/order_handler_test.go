package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lpxcollect/lpx_api/internal/models"
	"github.com/lpxcollect/lpx_api/internal/service"
	"github.com/lpxcollect/lpx_api/internal/sse"
)

type stubOrderStore struct {
	orders []*models.Order
	nextID int
}

func (s *stubOrderStore) InTx(fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}

func (s *stubOrderStore) Insert(_ *sqlx.Tx, o *models.Order) error {
	s.nextID++
	o.ID = s.nextID
	s.orders = append(s.orders, o)
	return nil
}

func (s *stubOrderStore) InsertItem(_ *sqlx.Tx, _ *models.OrderItem) error { return nil }

func (s *stubOrderStore) GetByOrderID(orderID string) (*models.Order, error) {
	for _, o := range s.orders {
		if o.OrderID == orderID {
			return o, nil
		}
	}
	return nil, sql.ErrNoRows
}

type stubStock struct {
	products map[string]*models.Product
}

func (s *stubStock) GetForUpdate(_ *sqlx.Tx, id string) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (s *stubStock) DecrementStock(_ *sqlx.Tx, id string, qty int) error {
	s.products[id].Stock -= qty
	return nil
}

type stubSales struct{}

func (stubSales) IncrementTotalSales(_ *sqlx.Tx, _ string, _ int) error { return nil }

type orderEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		OrderID  string  `json:"orderId"`
		Subtotal float64 `json:"subtotal"`
	} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newOrderRouter(stock *stubStock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewOrderService(&stubOrderStore{}, stock, stubSales{}, &sse.NopNotifier{})
	h := NewOrderHandler(svc)

	router := gin.New()
	asClient := func(c *gin.Context) {
		c.Set("client", &models.Client{ID: 1, IsActive: true})
	}
	router.POST("/v1/orders", asClient, h.CreateOrder)
	return router
}

func postOrder(t *testing.T, router *gin.Engine, body string) (*httptest.ResponseRecorder, *orderEnvelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/orders", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var env orderEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return rr, &env
}

func TestCreateOrderCreated(t *testing.T) {
	router := newOrderRouter(&stubStock{products: map[string]*models.Product{
		"p1": {ID: "p1", VendorID: "v1", Name: "Charizard Holo", Price: 100, Stock: 3, IsActive: true},
	}})

	rr, env := postOrder(t, router, `{"items":[{"productId":"p1","quantity":2}]}`)
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.Data.OrderID)
	assert.InDelta(t, 200.0, env.Data.Subtotal, 1e-9)
}

func TestCreateOrderOutOfStockConflict(t *testing.T) {
	router := newOrderRouter(&stubStock{products: map[string]*models.Product{
		"p1": {ID: "p1", VendorID: "v1", Name: "Charizard Holo", Price: 100, Stock: 1, IsActive: true},
	}})

	rr, env := postOrder(t, router, `{"items":[{"productId":"p1","quantity":2}]}`)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INSUFFICIENT_STOCK", env.Error.Code)
}

func TestCreateOrderUnknownProductNotFound(t *testing.T) {
	router := newOrderRouter(&stubStock{products: map[string]*models.Product{}})

	rr, env := postOrder(t, router, `{"items":[{"productId":"ghost","quantity":1}]}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "PRODUCT_NOT_FOUND", env.Error.Code)
}

func TestCreateOrderRejectsEmptyBody(t *testing.T) {
	router := newOrderRouter(&stubStock{products: map[string]*models.Product{}})

	rr, env := postOrder(t, router, `{"items":[]}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_REQUEST", env.Error.Code)
}
