package user

import (
	"time"

	"github.com/wichananm65/food-order-backend/internal/auth"
)

// User is a login account. Each user owns exactly one customer or
// restaurant profile, chosen by UserType.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"`
	UserType  auth.Role `json:"userType" db:"user_type"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Registration is a sign-up request. Location is required for restaurants.
type Registration struct {
	Name     string
	Email    string
	Password string
	UserType auth.Role
	Location string
}

// Session is the result of a successful register or login.
type Session struct {
	Token     string `json:"token"`
	User      User   `json:"user"`
	ProfileID int64  `json:"profileId"`
}

// Account is a user together with its role profile.
type Account struct {
	User
	Profile any `json:"profile"`
}
