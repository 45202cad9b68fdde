package menu

import (
	"context"

	"github.com/google/uuid"
)

// DishRepo defines the persistence surface for menu dishes.
type DishRepo interface {
	Create(ctx context.Context, dish *Dish) error
	Get(ctx context.Context, id uuid.UUID) (*Dish, error)
	List(ctx context.Context) ([]*Dish, error)
	Search(ctx context.Context, query, category string) ([]*Dish, error)
	Save(ctx context.Context, dish *Dish) error
	Delete(ctx context.Context, id uuid.UUID) error
}
