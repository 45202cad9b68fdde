package event

import "time"

const (
	// OrdersTopic delivers every change to the orders collection.
	OrdersTopic = "orders.events"

	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrdersCleared      = "orders.cleared"
)

// OrderEvent represents an order change published to NATS. The kitchen board
// and the customer confirmation stream both consume it; consumers treat any
// event as an invitation to refetch, so redundant deliveries are harmless.
type OrderEvent struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	OrderID    string    `json:"order_id,omitempty"`

	// Denormalized data for board display and customer notifications
	TableID        string `json:"table_id,omitempty"`
	TableNumber    int    `json:"table_number,omitempty"`
	NewStatus      string `json:"new_status,omitempty"`
	PreviousStatus string `json:"previous_status,omitempty"`
	PaymentMethod  string `json:"payment_method,omitempty"`
	ItemCount      int    `json:"item_count,omitempty"`
}
