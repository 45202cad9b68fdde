package menu

import (
	"testing"

	"github.com/google/uuid"
)

func TestDishEnsureID(t *testing.T) {
	dish := &Dish{}
	dish.EnsureID()
	if dish.ID == uuid.Nil {
		t.Error("EnsureID() should generate an ID")
	}

	existing := dish.ID
	dish.EnsureID()
	if dish.ID != existing {
		t.Error("EnsureID() should not replace an existing ID")
	}
}

func TestDishBeforeCreate(t *testing.T) {
	dish := &Dish{Name: "Bissap"}
	dish.BeforeCreate()

	if dish.ID == uuid.Nil {
		t.Error("BeforeCreate() should generate an ID")
	}
	if dish.CreatedAt.IsZero() {
		t.Error("BeforeCreate() should set CreatedAt")
	}
	if dish.UpdatedAt.IsZero() {
		t.Error("BeforeCreate() should set UpdatedAt")
	}
	if dish.SchemaVersion != CurrentDishSchemaVersion {
		t.Errorf("BeforeCreate() SchemaVersion = %d, want %d", dish.SchemaVersion, CurrentDishSchemaVersion)
	}
}

func TestCategories(t *testing.T) {
	tests := []struct {
		name   string
		dishes []*Dish
		want   []string
	}{
		{
			name:   "emptyList",
			dishes: nil,
			want:   nil,
		},
		{
			name: "firstSeenOrder",
			dishes: []*Dish{
				{Category: "Main course"},
				{Category: "Dessert"},
				{Category: "Main course"},
				{Category: "Drink"},
			},
			want: []string{"Main course", "Dessert", "Drink"},
		},
		{
			name: "skipsEmptyCategory",
			dishes: []*Dish{
				{Category: ""},
				{Category: "Drink"},
			},
			want: []string{"Drink"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Categories(tt.dishes)
			if len(got) != len(tt.want) {
				t.Fatalf("Categories() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Categories()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestValidateCreateDish(t *testing.T) {
	tests := []struct {
		name      string
		dish      *Dish
		wantCount int
	}{
		{
			name:      "valid",
			dish:      &Dish{Name: "Poulet yassa", Price: 6500, Category: "Main course"},
			wantCount: 0,
		},
		{
			name:      "missingName",
			dish:      &Dish{Price: 6500, Category: "Main course"},
			wantCount: 1,
		},
		{
			name:      "negativePrice",
			dish:      &Dish{Name: "Poulet yassa", Price: -1, Category: "Main course"},
			wantCount: 1,
		},
		{
			name:      "everythingWrong",
			dish:      &Dish{Price: -1},
			wantCount: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateCreateDish(tt.dish)
			if len(errs) != tt.wantCount {
				t.Errorf("ValidateCreateDish() returned %d errors, want %d: %v", len(errs), tt.wantCount, errs)
			}
		})
	}
}

func TestValidateUpdateDish(t *testing.T) {
	dish := &Dish{Name: "Poulet yassa", Price: 6500, Category: "Main course"}

	errs := ValidateUpdateDish(dish)
	if len(errs) != 1 {
		t.Fatalf("ValidateUpdateDish() without id returned %d errors, want 1: %v", len(errs), errs)
	}
	if errs[0].Field != "id" {
		t.Errorf("ValidateUpdateDish() error field = %q, want %q", errs[0].Field, "id")
	}

	dish.EnsureID()
	if errs := ValidateUpdateDish(dish); len(errs) != 0 {
		t.Errorf("ValidateUpdateDish() with id returned %d errors, want 0: %v", len(errs), errs)
	}
}

func TestFallbackDishes(t *testing.T) {
	dishes := FallbackDishes()
	if len(dishes) == 0 {
		t.Fatal("FallbackDishes() should never be empty")
	}

	// Returned copies must not alias the package-level catalog.
	dishes[0].Name = "mutated"
	again := FallbackDishes()
	if again[0].Name == "mutated" {
		t.Error("FallbackDishes() should return copies")
	}
}
