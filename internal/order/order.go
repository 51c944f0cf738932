package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is one customer's purchase from one restaurant.
type Order struct {
	ID              int64           `json:"id" db:"id"`
	CustomerID      int64           `json:"customerId" db:"customer_id"`
	RestaurantID    int64           `json:"restaurantId" db:"restaurant_id"`
	Status          Status          `json:"status" db:"status"`
	TotalAmount     decimal.Decimal `json:"totalAmount" db:"total_amount"`
	DeliveryAddress string          `json:"deliveryAddress" db:"delivery_address"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	CustomerName    string          `json:"customerName,omitempty" db:"customer_name"`
	RestaurantName  string          `json:"restaurantName,omitempty" db:"restaurant_name"`
	Items           []Item          `json:"items" db:"-"`
}

// Item is one line of an order. Price is captured at order time.
type Item struct {
	ID        int64           `json:"id" db:"id"`
	OrderID   int64           `json:"orderId" db:"order_id"`
	DishID    int64           `json:"dishId" db:"dish_id"`
	DishName  string          `json:"dishName,omitempty" db:"dish_name"`
	DishImage string          `json:"dishImage,omitempty" db:"dish_image"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Price     decimal.Decimal `json:"price" db:"price"`
}

func (it Item) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// ItemsTotal sums price × quantity over the order's items.
func (o Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// PlaceOrderInput is a validated cart submitted for placement.
type PlaceOrderInput struct {
	RestaurantID    int64
	Items           []ItemInput
	DeliveryAddress string
	TotalAmount     decimal.Decimal
}

type ItemInput struct {
	DishID   int64
	Quantity int
	Price    decimal.Decimal
}
