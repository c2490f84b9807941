package sse

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lpxcollect/lpx_api/internal/models"
)

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()
	assert.Equal(t, 0, hub.ClientCount())

	hub.Register("a")
	hub.Register("b")
	assert.Equal(t, 2, hub.ClientCount())

	hub.Unregister("a")
	assert.Equal(t, 1, hub.ClientCount())

	// Unregistering twice is a no-op.
	hub.Unregister("a")
	assert.Equal(t, 1, hub.ClientCount())
}

func TestHubBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub()
	c1 := hub.Register("a")
	c2 := hub.Register("b")

	hub.Broadcast(&OrderEvent{
		Event:     EventOrderCreated,
		OrderID:   "ord-1",
		Status:    "completed",
		Timestamp: time.Now(),
	})

	for _, c := range []*Client{c1, c2} {
		select {
		case data := <-c.Events:
			var ev OrderEvent
			require.NoError(t, json.Unmarshal(data, &ev))
			assert.Equal(t, EventOrderCreated, ev.Event)
			assert.Equal(t, "ord-1", ev.OrderID)
		default:
			t.Fatalf("client %s did not receive event", c.ID)
		}
	}
}

func TestHubBroadcastDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	c := hub.Register("slow")

	for i := 0; i < 100; i++ {
		hub.Broadcast(&OrderEvent{Event: EventOrderCreated, OrderID: "ord", Status: "completed"})
	}

	// Channel buffer caps at 64; the rest were dropped, not blocked on.
	assert.Equal(t, 64, len(c.Events))
}

func TestNotifierSkipsWithoutClients(t *testing.T) {
	hub := NewHub()
	n := NewHubNotifier(hub)

	// No clients connected; must not panic or block.
	n.NotifyOrderCreated(&models.Order{OrderID: "ord-1", Status: models.OrderStatusCompleted})
	n.NotifyPaymentRequestSettled(&models.PaymentRequest{ID: "pr_1", Status: models.PaymentRequestPaid})
}

func TestNotifierOrderPayload(t *testing.T) {
	hub := NewHub()
	c := hub.Register("a")
	n := NewHubNotifier(hub)

	n.NotifyOrderCreated(&models.Order{
		OrderID:  "ord-1",
		ClientID: 7,
		Status:   models.OrderStatusCompleted,
		Subtotal: 120.50,
		Items:    []models.OrderItem{{ProductID: "p1"}, {ProductID: "p2"}},
	})

	select {
	case data := <-c.Events:
		var ev OrderEvent
		require.NoError(t, json.Unmarshal(data, &ev))
		assert.Equal(t, EventOrderCreated, ev.Event)
		assert.Equal(t, 7, ev.ClientID)
		require.NotNil(t, ev.Subtotal)
		assert.InDelta(t, 120.50, *ev.Subtotal, 1e-9)
		require.NotNil(t, ev.ItemCount)
		assert.Equal(t, 2, *ev.ItemCount)
	default:
		t.Fatal("expected order event")
	}
}
