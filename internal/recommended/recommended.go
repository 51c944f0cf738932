package recommended

import "github.com/wichananm65/food-order-backend/internal/dish"

// Item is a dish ranked by how many units have been ordered across all
// orders that were not cancelled or rejected.
type Item struct {
	dish.Dish
	RestaurantName string `json:"restaurantName" db:"restaurant_name"`
	TimesOrdered   int    `json:"timesOrdered" db:"times_ordered"`
}
