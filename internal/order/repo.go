package order

import (
	"context"

	"github.com/google/uuid"
)

// OrderRepo defines the persistence surface for orders. List returns
// orders newest-first.
type OrderRepo interface {
	Create(ctx context.Context, order *Order) error
	Get(ctx context.Context, id uuid.UUID) (*Order, error)
	List(ctx context.Context) ([]*Order, error)
	Save(ctx context.Context, order *Order) error
	DeleteAll(ctx context.Context) error
}
