package restaurant

import "github.com/wichananm65/food-order-backend/internal/dish"

const (
	DeliveryOnly = "Delivery"
	PickupOnly   = "Pickup"
	DeliveryBoth = "Both"
)

func ValidDeliveryType(s string) bool {
	switch s {
	case DeliveryOnly, PickupOnly, DeliveryBoth:
		return true
	}
	return false
}

// Profile is a restaurant account's public and editable details.
type Profile struct {
	ID             int64  `json:"id" db:"id"`
	UserID         int64  `json:"userId" db:"user_id"`
	Name           string `json:"name" db:"name"`
	Email          string `json:"email" db:"email"`
	Description    string `json:"description" db:"description"`
	Location       string `json:"location" db:"location"`
	DeliveryType   string `json:"deliveryType" db:"delivery_type"`
	ContactInfo    string `json:"contactInfo" db:"contact_info"`
	ProfilePicture string `json:"profilePicture" db:"profile_picture"`
	OpeningTime    string `json:"openingTime" db:"opening_time"`
	ClosingTime    string `json:"closingTime" db:"closing_time"`
}

// Summary is the listing view of a restaurant.
type Summary struct {
	ID             int64  `json:"id" db:"id"`
	Name           string `json:"name" db:"name"`
	Description    string `json:"description" db:"description"`
	Location       string `json:"location" db:"location"`
	DeliveryType   string `json:"deliveryType" db:"delivery_type"`
	ProfilePicture string `json:"profilePicture" db:"profile_picture"`
	OpeningTime    string `json:"openingTime" db:"opening_time"`
	ClosingTime    string `json:"closingTime" db:"closing_time"`
	IsFavorite     bool   `json:"isFavorite" db:"-"`
}

// Detail is a restaurant with its menu as seen by a customer.
type Detail struct {
	Profile
	IsFavorite bool        `json:"isFavorite"`
	Menu       []dish.Dish `json:"menu"`
}

type ProfileUpdate struct {
	Name         string
	Description  string
	Location     string
	DeliveryType string
	ContactInfo  string
	OpeningTime  string
	ClosingTime  string
}

// ListFilter narrows a restaurant listing. An empty DeliveryType lists all.
type ListFilter struct {
	DeliveryType string
	Limit        int
	Offset       int
}

func (p Profile) summary() Summary {
	return Summary{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Location:       p.Location,
		DeliveryType:   p.DeliveryType,
		ProfilePicture: p.ProfilePicture,
		OpeningTime:    p.OpeningTime,
		ClosingTime:    p.ClosingTime,
	}
}
