package order

import (
	"context"
	"sort"
	"sync"

	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"
	"github.com/misterg2020/bistro-chat-connect/internal/tables"
)

// MockPublisher is a mock implementation of events.Publisher for testing
type MockPublisher struct {
	mu          sync.Mutex
	Published   [][]byte
	Topics      []string
	PublishFunc func(ctx context.Context, topic string, msg []byte) error
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, msg)
	m.Topics = append(m.Topics, topic)
	return nil
}

// MockSubscriber is a mock implementation of events.Subscriber for testing
type MockSubscriber struct {
	SubscribeFunc func(ctx context.Context, topic string, handler events.HandlerFunc) error
}

func NewMockSubscriber() *MockSubscriber {
	return &MockSubscriber{}
}

func (m *MockSubscriber) Subscribe(ctx context.Context, topic string, handler events.HandlerFunc) error {
	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(ctx, topic, handler)
	}
	return nil
}

// MockOrderRepo is a mock implementation of OrderRepo for testing
type MockOrderRepo struct {
	mu         sync.RWMutex
	orders     map[uuid.UUID]*Order
	CreateFunc func(ctx context.Context, order *Order) error
	GetFunc    func(ctx context.Context, id uuid.UUID) (*Order, error)
	ListFunc   func(ctx context.Context) ([]*Order, error)
	SaveFunc   func(ctx context.Context, order *Order) error
}

func NewMockOrderRepo() *MockOrderRepo {
	return &MockOrderRepo{
		orders: make(map[uuid.UUID]*Order),
	}
}

func (m *MockOrderRepo) Create(ctx context.Context, order *Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, order)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
	return nil
}

func (m *MockOrderRepo) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	return order, nil
}

func (m *MockOrderRepo) List(ctx context.Context) ([]*Order, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*Order
	for _, o := range m.orders {
		result = append(result, o)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].PlacedAt.After(result[j].PlacedAt) })
	return result, nil
}

func (m *MockOrderRepo) Save(ctx context.Context, order *Order) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, order)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
	return nil
}

func (m *MockOrderRepo) DeleteAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = make(map[uuid.UUID]*Order)
	return nil
}

// MockTableRepo is a mock implementation of tables.TableRepo for testing
type MockTableRepo struct {
	mu               sync.Mutex
	byNumber         map[int]*tables.Table
	FindOrCreateFunc func(ctx context.Context, number int) (*tables.Table, error)
}

func NewMockTableRepo() *MockTableRepo {
	return &MockTableRepo{
		byNumber: make(map[int]*tables.Table),
	}
}

func (m *MockTableRepo) Create(ctx context.Context, table *tables.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byNumber[table.Number] = table
	return nil
}

func (m *MockTableRepo) Get(ctx context.Context, id uuid.UUID) (*tables.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.byNumber {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (m *MockTableRepo) GetByNumber(ctx context.Context, number int) (*tables.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byNumber[number], nil
}

func (m *MockTableRepo) FindOrCreate(ctx context.Context, number int) (*tables.Table, error) {
	if m.FindOrCreateFunc != nil {
		return m.FindOrCreateFunc(ctx, number)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.byNumber[number]; ok {
		return t, nil
	}
	t := tables.NewTable(number)
	t.BeforeCreate()
	m.byNumber[number] = t
	return t, nil
}

func (m *MockTableRepo) List(ctx context.Context) ([]*tables.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*tables.Table
	for _, t := range m.byNumber {
		result = append(result, t)
	}
	return result, nil
}

func (m *MockTableRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for number, t := range m.byNumber {
		if t.ID == id {
			delete(m.byNumber, number)
			return nil
		}
	}
	return nil
}
