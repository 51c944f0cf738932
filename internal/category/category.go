package category

// Category is a distinct dish category with the number of dishes in it.
type Category struct {
	Name      string `json:"name" db:"category"`
	DishCount int    `json:"dishCount" db:"dish_count"`
}
