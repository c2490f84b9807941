package sse

import (
	"time"

	"github.com/lpxcollect/lpx_api/internal/models"
)

// OrderNotifier is the interface services use to emit marketplace events.
type OrderNotifier interface {
	NotifyOrderCreated(order *models.Order)
	NotifyPaymentRequestSettled(pr *models.PaymentRequest)
}

// HubNotifier implements OrderNotifier using the SSE Hub.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyOrderCreated(order *models.Order) {
	if n.hub.ClientCount() == 0 {
		return
	}
	itemCount := len(order.Items)
	subtotal := order.Subtotal
	n.hub.Broadcast(&OrderEvent{
		Event:     EventOrderCreated,
		OrderID:   order.OrderID,
		ClientID:  order.ClientID,
		Status:    string(order.Status),
		Subtotal:  &subtotal,
		ItemCount: &itemCount,
		Timestamp: time.Now(),
	})
}

func (n *HubNotifier) NotifyPaymentRequestSettled(pr *models.PaymentRequest) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(&OrderEvent{
		Event:     EventPaymentRequestSettled,
		PaymentID: pr.ID,
		VendorID:  pr.VendorID,
		Status:    string(pr.Status),
		Timestamp: time.Now(),
	})
}

// NopNotifier is a no-op implementation for when SSE is not needed.
type NopNotifier struct{}

func (n *NopNotifier) NotifyOrderCreated(order *models.Order)                {}
func (n *NopNotifier) NotifyPaymentRequestSettled(pr *models.PaymentRequest) {}
