package menu

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

const CurrentDishSchemaVersion = 1

// Dish represents a single orderable item on the menu
type Dish struct {
	ID            uuid.UUID `json:"id" bson:"_id"`
	Name          string    `json:"name" bson:"name"`
	Description   string    `json:"description" bson:"description"`
	Price         int64     `json:"price" bson:"price"` // Minor currency units, never negative
	Category      string    `json:"category" bson:"category"`
	ImageURL      string    `json:"image_url" bson:"image_url"`
	SchemaVersion int       `json:"schema_version" bson:"schema_version"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	CreatedBy     string    `json:"created_by" bson:"created_by"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
	UpdatedBy     string    `json:"updated_by" bson:"updated_by"`
}

func NewDish() *Dish {
	return &Dish{
		ID: apt.GenerateNewID(),
	}
}

func (d *Dish) GetID() uuid.UUID {
	return d.ID
}

func (d *Dish) SetID(id uuid.UUID) {
	d.ID = id
}

// ResourceType returns the resource type for URL generation
func (d *Dish) ResourceType() string {
	return "menu/dish"
}

// EnsureID generates a new UUID if ID is nil
func (d *Dish) EnsureID() {
	if d.ID == uuid.Nil {
		d.ID = apt.GenerateNewID()
	}
}

func (d *Dish) BeforeCreate() {
	d.EnsureID()
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now
	if d.SchemaVersion == 0 {
		d.SchemaVersion = CurrentDishSchemaVersion
	}
}

func (d *Dish) BeforeUpdate() {
	d.UpdatedAt = time.Now()
}

// Categories derives the distinct category labels of the given dishes in
// first-seen order. The implicit "all" tab is a client concern and is not
// part of the derived set.
func Categories(dishes []*Dish) []string {
	seen := make(map[string]bool, len(dishes))
	var categories []string
	for _, d := range dishes {
		if d.Category == "" || seen[d.Category] {
			continue
		}
		seen[d.Category] = true
		categories = append(categories, d.Category)
	}
	return categories
}
