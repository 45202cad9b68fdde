package kitchen

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/misterg2020/bistro-chat-connect/internal/order"
)

// boardRepo is a map-backed order.OrderRepo for board tests
type boardRepo struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*order.Order
}

func newBoardRepo() *boardRepo {
	return &boardRepo{
		orders: make(map[uuid.UUID]*order.Order),
	}
}

func (m *boardRepo) Create(ctx context.Context, o *order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = o
	return nil
}

func (m *boardRepo) Get(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.orders[id], nil
}

func (m *boardRepo) List(ctx context.Context) ([]*order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*order.Order
	for _, o := range m.orders {
		result = append(result, o)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].PlacedAt.After(result[j].PlacedAt) })
	return result, nil
}

func (m *boardRepo) Save(ctx context.Context, o *order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = o
	return nil
}

func (m *boardRepo) DeleteAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = make(map[uuid.UUID]*order.Order)
	return nil
}

func seedOrder(repo *boardRepo, tableNumber int, status string) *order.Order {
	o := order.NewOrder()
	o.TableNumber = tableNumber
	o.BeforeCreate()
	o.Status = status
	repo.Create(context.Background(), o)
	return o
}
