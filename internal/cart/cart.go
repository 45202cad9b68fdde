package cart

import "github.com/google/uuid"

// Item is one dish line in a cart. Price is captured at add time so the
// cart total stays stable even if the catalog changes mid-meal.
type Item struct {
	DishID   uuid.UUID `json:"dish_id"`
	Name     string    `json:"name"`
	Price    int64     `json:"price"`
	Quantity int       `json:"quantity"`
}

// Cart holds a table's pending selection before checkout. Quantities are
// always positive: any operation that would drop a line to zero or below
// removes it instead.
type Cart struct {
	TableNumber int    `json:"table_number"`
	Items       []Item `json:"items"`
}

func New(tableNumber int) *Cart {
	return &Cart{
		TableNumber: tableNumber,
		Items:       []Item{},
	}
}

// Add appends quantity of a dish, merging with an existing line for the
// same dish. Non-positive quantities are ignored.
func (c *Cart) Add(dishID uuid.UUID, name string, price int64, quantity int) {
	if quantity <= 0 {
		return
	}
	for i := range c.Items {
		if c.Items[i].DishID == dishID {
			c.Items[i].Quantity += quantity
			return
		}
	}
	c.Items = append(c.Items, Item{
		DishID:   dishID,
		Name:     name,
		Price:    price,
		Quantity: quantity,
	})
}

// SetQuantity replaces a line's quantity. Zero or negative removes the
// line; an absent dish is a no-op.
func (c *Cart) SetQuantity(dishID uuid.UUID, quantity int) {
	for i := range c.Items {
		if c.Items[i].DishID == dishID {
			if quantity <= 0 {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
				return
			}
			c.Items[i].Quantity = quantity
			return
		}
	}
}

// Remove drops a dish's line entirely.
func (c *Cart) Remove(dishID uuid.UUID) {
	for i := range c.Items {
		if c.Items[i].DishID == dishID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// TotalItems is the sum of all line quantities.
func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice is the sum of price times quantity across all lines.
func (c *Cart) TotalPrice() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
