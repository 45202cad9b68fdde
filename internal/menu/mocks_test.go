package menu

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MockDishRepo is a mock implementation of DishRepo for testing
type MockDishRepo struct {
	mu         sync.RWMutex
	dishes     map[uuid.UUID]*Dish
	order      []uuid.UUID
	CreateFunc func(ctx context.Context, dish *Dish) error
	GetFunc    func(ctx context.Context, id uuid.UUID) (*Dish, error)
	ListFunc   func(ctx context.Context) ([]*Dish, error)
	SearchFunc func(ctx context.Context, query, category string) ([]*Dish, error)
	SaveFunc   func(ctx context.Context, dish *Dish) error
	DeleteFunc func(ctx context.Context, id uuid.UUID) error
}

func NewMockDishRepo() *MockDishRepo {
	return &MockDishRepo{
		dishes: make(map[uuid.UUID]*Dish),
	}
}

func (m *MockDishRepo) Create(ctx context.Context, dish *Dish) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, dish)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dishes[dish.ID] = dish
	m.order = append(m.order, dish.ID)
	return nil
}

func (m *MockDishRepo) Get(ctx context.Context, id uuid.UUID) (*Dish, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	dish, ok := m.dishes[id]
	if !ok {
		return nil, nil
	}
	return dish, nil
}

func (m *MockDishRepo) List(ctx context.Context) ([]*Dish, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*Dish
	for _, id := range m.order {
		result = append(result, m.dishes[id])
	}
	return result, nil
}

func (m *MockDishRepo) Search(ctx context.Context, query, category string) ([]*Dish, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, category)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	q := strings.ToLower(query)
	var result []*Dish
	for _, id := range m.order {
		d := m.dishes[id]
		if q != "" && !strings.Contains(strings.ToLower(d.Name), q) {
			continue
		}
		if category != "" && d.Category != category {
			continue
		}
		result = append(result, d)
	}
	return result, nil
}

func (m *MockDishRepo) Save(ctx context.Context, dish *Dish) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, dish)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dishes[dish.ID] = dish
	return nil
}

func (m *MockDishRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.dishes, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}
