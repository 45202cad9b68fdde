package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/misterg2020/bistro-chat-connect/internal/session"
)

// Store persists carts in a session store, one key per table number, so
// concurrent tabs for different tables never collide.
type Store struct {
	sessions session.Store
}

func NewStore(sessions session.Store) *Store {
	return &Store{sessions: sessions}
}

func key(tableNumber int) string {
	return fmt.Sprintf("cart:%d", tableNumber)
}

// Get loads a table's cart, returning a fresh empty cart when none is
// saved.
func (s *Store) Get(ctx context.Context, tableNumber int) (*Cart, error) {
	value, ok, err := s.sessions.Get(ctx, key(tableNumber))
	if err != nil {
		return nil, fmt.Errorf("cannot load cart for table %d: %w", tableNumber, err)
	}
	if !ok {
		return New(tableNumber), nil
	}

	var c Cart
	if err := json.Unmarshal(value, &c); err != nil {
		return nil, fmt.Errorf("cannot decode cart for table %d: %w", tableNumber, err)
	}
	if c.Items == nil {
		c.Items = []Item{}
	}
	return &c, nil
}

// Save writes a table's cart back to the session store.
func (s *Store) Save(ctx context.Context, c *Cart) error {
	value, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("cannot encode cart for table %d: %w", c.TableNumber, err)
	}
	if err := s.sessions.Set(ctx, key(c.TableNumber), value); err != nil {
		return fmt.Errorf("cannot save cart for table %d: %w", c.TableNumber, err)
	}
	return nil
}

// Clear removes a table's saved cart.
func (s *Store) Clear(ctx context.Context, tableNumber int) error {
	if err := s.sessions.Delete(ctx, key(tableNumber)); err != nil {
		return fmt.Errorf("cannot clear cart for table %d: %w", tableNumber, err)
	}
	return nil
}
