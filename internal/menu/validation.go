package menu

import (
	"strings"

	"github.com/google/uuid"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateCreateDish validates a dish before creation
func ValidateCreateDish(dish *Dish) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(dish.Name) == "" {
		errors = append(errors, ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if dish.Price < 0 {
		errors = append(errors, ValidationError{
			Field:   "price",
			Message: "price cannot be negative",
		})
	}

	if strings.TrimSpace(dish.Category) == "" {
		errors = append(errors, ValidationError{
			Field:   "category",
			Message: "category is required",
		})
	}

	return errors
}

// ValidateUpdateDish validates a dish before update
func ValidateUpdateDish(dish *Dish) []ValidationError {
	errors := ValidateCreateDish(dish)

	if dish.ID == uuid.Nil {
		errors = append(errors, ValidationError{
			Field:   "id",
			Message: "id is required for update",
		})
	}

	return errors
}
