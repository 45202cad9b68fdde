package order

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
	"github.com/misterg2020/bistro-chat-connect/pkg/enums/orderstatus"
)

const CurrentOrderSchemaVersion = 1

// PaymentMethods are the accepted payment labels. Payment is recorded,
// never captured; there is no gateway behind these.
var PaymentMethods = []string{"cash", "card", "mobile_money", "wave"}

// LineItem is one dish line frozen into an order at submission time.
type LineItem struct {
	DishID   uuid.UUID `json:"dish_id" bson:"dish_id"`
	Name     string    `json:"name" bson:"name"`
	Price    int64     `json:"price" bson:"price"`
	Quantity int       `json:"quantity" bson:"quantity"`
}

// Order is a submitted table order moving through the kitchen lifecycle
// pending, preparing, ready, served.
type Order struct {
	ID            uuid.UUID  `json:"id" bson:"_id"`
	TableID       uuid.UUID  `json:"table_id" bson:"table_id"`
	TableNumber   int        `json:"table_number" bson:"table_number"`
	Items         []LineItem `json:"items" bson:"items"`
	Status        string     `json:"status" bson:"status"`
	PaymentMethod string     `json:"payment_method" bson:"payment_method"`
	PlacedAt      time.Time  `json:"placed_at" bson:"placed_at"`
	SchemaVersion int        `json:"schema_version" bson:"schema_version"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at"`
	CreatedBy     string     `json:"created_by" bson:"created_by"`
	UpdatedAt     time.Time  `json:"updated_at" bson:"updated_at"`
	UpdatedBy     string     `json:"updated_by" bson:"updated_by"`
}

func NewOrder() *Order {
	return &Order{
		ID:     apt.GenerateNewID(),
		Status: orderstatus.Statuses.Pending.Name,
		Items:  []LineItem{},
	}
}

func (o *Order) GetID() uuid.UUID {
	return o.ID
}

func (o *Order) SetID(id uuid.UUID) {
	o.ID = id
}

func (o *Order) ResourceType() string {
	return "order"
}

func (o *Order) EnsureID() {
	if o.ID == uuid.Nil {
		o.ID = apt.GenerateNewID()
	}
}

func (o *Order) BeforeCreate() {
	o.EnsureID()
	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now
	if o.PlacedAt.IsZero() {
		o.PlacedAt = now
	}
	if o.Status == "" {
		o.Status = orderstatus.Statuses.Pending.Name
	}
	if o.SchemaVersion == 0 {
		o.SchemaVersion = CurrentOrderSchemaVersion
	}
}

func (o *Order) BeforeUpdate() {
	o.UpdatedAt = time.Now()
}

// Advance moves the order one step forward in the lifecycle. It reports
// whether the status changed; advancing a served order is a no-op.
func (o *Order) Advance() bool {
	current := orderstatus.ByName(o.Status)
	if current == nil {
		return false
	}
	next, ok := current.Next()
	if !ok {
		return false
	}
	o.Status = next.Name
	return true
}

// Total is the order amount in minor currency units.
func (o *Order) Total() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

// ItemCount is the sum of all line quantities.
func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

// ValidPaymentMethod reports whether the label is one of the accepted
// payment methods.
func ValidPaymentMethod(method string) bool {
	for _, m := range PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}
