package tables

import (
	"context"

	"github.com/google/uuid"
)

// TableRepo defines the persistence surface for tables.
//
// FindOrCreate must be atomic with respect to the unique table number:
// concurrent calls for the same number return the same table, exactly one
// of them creating it.
type TableRepo interface {
	Create(ctx context.Context, table *Table) error
	Get(ctx context.Context, id uuid.UUID) (*Table, error)
	GetByNumber(ctx context.Context, number int) (*Table, error)
	FindOrCreate(ctx context.Context, number int) (*Table, error)
	List(ctx context.Context) ([]*Table, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
