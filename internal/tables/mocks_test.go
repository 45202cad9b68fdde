package tables

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MockTableRepo is a mock implementation of TableRepo for testing
type MockTableRepo struct {
	mu               sync.Mutex
	tables           map[uuid.UUID]*Table
	ListFunc         func(ctx context.Context) ([]*Table, error)
	FindOrCreateFunc func(ctx context.Context, number int) (*Table, error)
}

func NewMockTableRepo() *MockTableRepo {
	return &MockTableRepo{
		tables: make(map[uuid.UUID]*Table),
	}
}

func (m *MockTableRepo) Create(ctx context.Context, table *Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table.ID] = table
	return nil
}

func (m *MockTableRepo) Get(ctx context.Context, id uuid.UUID) (*Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	table, ok := m.tables[id]
	if !ok {
		return nil, nil
	}
	return table, nil
}

func (m *MockTableRepo) GetByNumber(ctx context.Context, number int) (*Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tables {
		if t.Number == number {
			return t, nil
		}
	}
	return nil, nil
}

func (m *MockTableRepo) FindOrCreate(ctx context.Context, number int) (*Table, error) {
	if m.FindOrCreateFunc != nil {
		return m.FindOrCreateFunc(ctx, number)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tables {
		if t.Number == number {
			return t, nil
		}
	}
	table := NewTable(number)
	table.BeforeCreate()
	m.tables[table.ID] = table
	return table, nil
}

func (m *MockTableRepo) List(ctx context.Context) ([]*Table, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*Table
	for _, t := range m.tables {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result, nil
}

func (m *MockTableRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tables, id)
	return nil
}
