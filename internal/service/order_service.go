package service

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/lpxcollect/lpx_api/internal/models"
	"github.com/lpxcollect/lpx_api/internal/sse"
	"github.com/lpxcollect/lpx_api/internal/utils"
)

// OrderStore is the order persistence surface checkout drives. InTx
// brackets the write methods so a failed line rolls the whole order
// back.
type OrderStore interface {
	InTx(fn func(tx *sqlx.Tx) error) error
	Insert(tx *sqlx.Tx, o *models.Order) error
	InsertItem(tx *sqlx.Tx, item *models.OrderItem) error
	GetByOrderID(orderID string) (*models.Order, error)
}

// StockReserver locks and decrements product stock inside a checkout
// transaction.
type StockReserver interface {
	GetForUpdate(tx *sqlx.Tx, id string) (*models.Product, error)
	DecrementStock(tx *sqlx.Tx, id string, qty int) error
}

// SalesRecorder rolls completed units into vendor lifetime totals.
type SalesRecorder interface {
	IncrementTotalSales(tx *sqlx.Tx, id string, delta int) error
}

// OrderService handles storefront order creation and lookup.
// Payment capture happens upstream in the storefront, so orders arrive
// settled and are recorded as completed.
type OrderService struct {
	orders   OrderStore
	stock    StockReserver
	vendors  SalesRecorder
	notifier sse.OrderNotifier
}

// NewOrderService constructs an OrderService.
func NewOrderService(
	orders OrderStore,
	stock StockReserver,
	vendors SalesRecorder,
	notifier sse.OrderNotifier,
) *OrderService {
	return &OrderService{
		orders:   orders,
		stock:    stock,
		vendors:  vendors,
		notifier: notifier,
	}
}

// OrderItemRequest is one requested line in a checkout.
type OrderItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// CreateOrderRequest is the checkout payload.
type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateOrder validates stock, decrements it, snapshots prices, and
// rolls vendor sales forward, all inside one transaction. Product rows
// are locked for the duration so concurrent checkouts cannot oversell.
func (s *OrderService) CreateOrder(client *models.Client, req *CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, utils.ErrInvalidAmount
	}

	order := &models.Order{
		OrderID:  uuid.New().String(),
		ClientID: client.ID,
		Status:   models.OrderStatusCompleted,
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	err := s.orders.InTx(func(tx *sqlx.Tx) error {
		unitsByVendor := make(map[string]int)
		for _, line := range req.Items {
			if line.Quantity <= 0 {
				return utils.ErrInvalidAmount
			}

			product, err := s.stock.GetForUpdate(tx, line.ProductID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return utils.ErrProductNotFound
				}
				return err
			}
			if !product.IsActive {
				return utils.ErrProductInactive
			}
			if product.Stock < line.Quantity {
				return utils.ErrInsufficientStock
			}

			if err := s.stock.DecrementStock(tx, product.ID, line.Quantity); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return utils.ErrInsufficientStock
				}
				return err
			}

			lineTotal := product.Price * float64(line.Quantity)
			items = append(items, models.OrderItem{
				ProductID:   product.ID,
				VendorID:    product.VendorID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				UnitPrice:   product.Price,
				LineTotal:   lineTotal,
			})
			order.Subtotal += lineTotal
			unitsByVendor[product.VendorID] += line.Quantity
		}

		if err := s.orders.Insert(tx, order); err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
			if err := s.orders.InsertItem(tx, &items[i]); err != nil {
				return err
			}
		}
		for vendorID, units := range unitsByVendor {
			if err := s.vendors.IncrementTotalSales(tx, vendorID, units); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	order.Items = items

	log.Info().
		Str("order_id", order.OrderID).
		Int("client_id", client.ID).
		Float64("subtotal", order.Subtotal).
		Msg("Order created")

	s.notifier.NotifyOrderCreated(order)
	return order, nil
}

// GetOrder returns an order by public id, scoped to the owning client.
func (s *OrderService) GetOrder(clientID int, orderID string) (*models.Order, error) {
	order, err := s.orders.GetByOrderID(orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrOrderNotFound
		}
		return nil, err
	}
	// Clients cannot read each other's orders.
	if order.ClientID != clientID {
		return nil, utils.ErrOrderNotFound
	}
	return order, nil
}
