package cart

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wichananm65/food-order-backend/internal/dish"
)

// Cart holds one customer's pending selection. All items come from
// RestaurantID, which is zero while the cart is empty.
type Cart struct {
	UserID       int64         `json:"userId"`
	RestaurantID int64         `json:"restaurantId"`
	Items        map[int64]int `json:"items"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

func empty(userID int64) Cart {
	return Cart{UserID: userID, Items: map[int64]int{}}
}

func (c Cart) IsEmpty() bool { return len(c.Items) == 0 }

// Line is a cart item joined with the current dish record.
type Line struct {
	Dish     dish.Dish       `json:"dish"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type View struct {
	RestaurantID int64           `json:"restaurantId"`
	Items        []Line          `json:"items"`
	Total        decimal.Decimal `json:"total"`
}
