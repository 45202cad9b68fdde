package tables

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

// Table maps a physical table number to a stable identity. Tables are
// created lazily the first time a guest orders from one.
type Table struct {
	ID        uuid.UUID `json:"id" bson:"_id"`
	Number    int       `json:"number" bson:"number"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	CreatedBy string    `json:"created_by" bson:"created_by"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
	UpdatedBy string    `json:"updated_by" bson:"updated_by"`
}

func NewTable(number int) *Table {
	return &Table{
		ID:     apt.GenerateNewID(),
		Number: number,
	}
}

func (t *Table) GetID() uuid.UUID {
	return t.ID
}

func (t *Table) SetID(id uuid.UUID) {
	t.ID = id
}

func (t *Table) ResourceType() string {
	return "table"
}

func (t *Table) EnsureID() {
	if t.ID == uuid.Nil {
		t.ID = apt.GenerateNewID()
	}
}

func (t *Table) BeforeCreate() {
	t.EnsureID()
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
}

func (t *Table) BeforeUpdate() {
	t.UpdatedAt = time.Now()
}
