package services

import (
	"sync"

	"github.com/google/uuid"

	"github.com/egnner/project-delivery-sub001/models"
)

// Event kinds published on order lifecycle changes.
const (
	EventOrderCreated     = "order-created"
	EventPaymentConfirmed = "payment-confirmed"
	EventPaymentRejected  = "payment-rejected"
	EventStatusUpdated    = "status-updated"
)

// Event is one lifecycle notification: what happened, a snapshot of the
// order after the change, and a short human-readable message for toasts.
type Event struct {
	Kind    string        `json:"kind"`
	Order   *models.Order `json:"order"`
	Message string        `json:"message"`
}

// Publisher is the outbound side of the notification hub. The order service
// depends on this interface so unit tests can capture events without a live
// transport.
type Publisher interface {
	Publish(event Event)
}

// Client is one live subscriber channel. Events are delivered through a
// buffered channel drained by the transport layer's write loop, which
// preserves publish order per subscriber without ever blocking the
// publisher.
type Client struct {
	ID     string
	events chan Event
}

// clientBuffer is how many undelivered events a subscriber may lag behind
// before the hub starts dropping events for it.
const clientBuffer = 16

// NewClient creates a subscriber channel with a fresh id.
func NewClient() *Client {
	return &Client{
		ID:     uuid.NewString(),
		events: make(chan Event, clientBuffer),
	}
}

// Events returns the channel the transport layer reads delivered events from.
// The channel is closed when the client leaves the hub.
func (c *Client) Events() <-chan Event {
	return c.events
}

// Hub routes lifecycle events to the live subscribers that should see them:
// every event goes to the staff group, and events for a given order also go
// to the subscribers watching that order id. Membership changes and
// publishes share one mutex, so group state never corrupts and events for
// the same order are enqueued in the order they were published.
type Hub struct {
	mu     sync.Mutex
	staff  map[*Client]bool
	orders map[uint]map[*Client]bool
}

// NewHub creates an empty subscriber registry.
func NewHub() *Hub {
	return &Hub{
		staff:  make(map[*Client]bool),
		orders: make(map[uint]map[*Client]bool),
	}
}

// JoinStaff subscribes a client to every lifecycle event (the dashboard).
func (h *Hub) JoinStaff(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.staff[c] = true
}

// JoinOrder subscribes a client to events for a single order id (a customer
// watching their order; several tabs may watch the same id).
func (h *Hub) JoinOrder(c *Client, orderID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group, ok := h.orders[orderID]
	if !ok {
		group = make(map[*Client]bool)
		h.orders[orderID] = group
	}
	group[c] = true
}

// Leave removes the client from every group and closes its event channel.
// Safe to call more than once.
func (h *Hub) Leave(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	removed := false
	if h.staff[c] {
		delete(h.staff, c)
		removed = true
	}
	for orderID, group := range h.orders {
		if group[c] {
			delete(group, c)
			removed = true
		}
		if len(group) == 0 {
			delete(h.orders, orderID)
		}
	}
	if removed {
		close(c.events)
	}
}

// Publish fans the event out to the staff group and, when the event carries
// an order, to that order's group. Delivery is best effort: a subscriber
// whose buffer is full simply misses the event and must re-fetch on
// reconnect. Publish never blocks and never fails the business operation
// that triggered it.
func (h *Hub) Publish(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.staff {
		h.deliver(c, event)
	}
	if event.Order == nil {
		return
	}
	for c := range h.orders[event.Order.ID] {
		if h.staff[c] {
			continue // already delivered via the staff group
		}
		h.deliver(c, event)
	}
}

// deliver enqueues without blocking; a full buffer drops the event.
func (h *Hub) deliver(c *Client, event Event) {
	select {
	case c.events <- event:
	default:
	}
}

var hubInstance *Hub

// InitHub initializes the process-wide notification hub
func InitHub() *Hub {
	hubInstance = NewHub()
	return hubInstance
}

// GetHub returns the initialized hub instance
func GetHub() *Hub {
	return hubInstance
}

// SetHub sets the hub instance (primarily for testing)
func SetHub(h *Hub) {
	hubInstance = h
}
