package menu

import (
	"strings"

	"github.com/google/uuid"
)

// Catalog source markers returned alongside dish listings so clients can
// surface demo data explicitly instead of mistaking it for live content.
const (
	SourceCatalog  = "catalog"
	SourceFallback = "fallback"
)

// fallbackDishes is a small fixed catalog served when the store is
// unreachable or empty, so the menu is never blank during development.
var fallbackDishes = []*Dish{
	{
		ID:          uuid.MustParse("7a1f3b2c-0001-4c3a-9e1d-1a2b3c4d5e01"),
		Name:        "Attiéké au poisson",
		Description: "Cassava semolina served with grilled fish and fresh vegetables",
		Price:       5000,
		Category:    "Main course",
		ImageURL:    "https://i.ytimg.com/vi/o9v9co-ohWc/maxresdefault.jpg",
	},
	{
		ID:          uuid.MustParse("7a1f3b2c-0002-4c3a-9e1d-1a2b3c4d5e02"),
		Name:        "Poulet yassa",
		Description: "Chicken marinated in onions and lemon, a Senegalese tradition",
		Price:       6500,
		Category:    "Main course",
		ImageURL:    "https://res.cloudinary.com/hv9ssmzrz/image/fetch/c_fill,f_auto,h_600,q_auto,w_800/https://s3-eu-west-1.amazonaws.com/images-ca-1-0-1-eu/recipe_photos/original/228351/Poulet_Yassa_S%C3%A9n%C3%A9galais.jpg",
	},
	{
		ID:          uuid.MustParse("7a1f3b2c-0003-4c3a-9e1d-1a2b3c4d5e03"),
		Name:        "Tilapia grillé",
		Description: "Grilled tilapia served with plantains and a spicy sauce",
		Price:       7000,
		Category:    "Main course",
		ImageURL:    "https://www.maggi.ci/sites/default/files/srh_recipes/3bff11a994c06addd766ec13196124ec.jpg",
	},
	{
		ID:          uuid.MustParse("7a1f3b2c-0004-4c3a-9e1d-1a2b3c4d5e04"),
		Name:        "Tarte tatin",
		Description: "Caramelized apple tart, served warm with vanilla ice cream",
		Price:       4000,
		Category:    "Dessert",
		ImageURL:    "https://images.immediate.co.uk/production/volatile/sites/30/2020/08/tarte-tatin-502b8b9.jpg",
	},
	{
		ID:          uuid.MustParse("7a1f3b2c-0005-4c3a-9e1d-1a2b3c4d5e05"),
		Name:        "Bissap",
		Description: "Refreshing hibiscus flower drink with sugar and fresh mint",
		Price:       2000,
		Category:    "Drink",
		ImageURL:    "https://chroniquebeautenoire.com/wp-content/uploads/2019/12/Cheveux_bissap_fleur_hibiscus.png",
	},
}

// FallbackDishes returns copies of the built-in demo catalog.
func FallbackDishes() []*Dish {
	dishes := make([]*Dish, len(fallbackDishes))
	for i, d := range fallbackDishes {
		dish := *d
		dishes[i] = &dish
	}
	return dishes
}

// filterFallback applies the same search and category semantics the live
// catalog uses to the demo dishes.
func filterFallback(query, category string) []*Dish {
	var dishes []*Dish
	q := strings.ToLower(query)
	for _, d := range FallbackDishes() {
		if q != "" && !strings.Contains(strings.ToLower(d.Name), q) {
			continue
		}
		if category != "" && d.Category != category {
			continue
		}
		dishes = append(dishes, d)
	}
	return dishes
}
