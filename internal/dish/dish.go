package dish

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dish is one menu entry of a restaurant.
type Dish struct {
	ID           int64           `json:"id" db:"id"`
	RestaurantID int64           `json:"restaurantId" db:"restaurant_id"`
	Name         string          `json:"name" db:"name"`
	Description  string          `json:"description" db:"description"`
	Price        decimal.Decimal `json:"price" db:"price"`
	Image        string          `json:"image" db:"image"`
	Ingredients  string          `json:"ingredients" db:"ingredients"`
	Category     string          `json:"category" db:"category"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt" db:"updated_at"`
}

// Input carries the editable fields of a dish.
type Input struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Ingredients string
	Category    string
}

func (in Input) apply(d *Dish) {
	d.Name = in.Name
	d.Description = in.Description
	d.Price = in.Price
	d.Ingredients = in.Ingredients
	d.Category = in.Category
}
