package address

import "time"

// Address is a saved delivery address in a customer's address book.
type Address struct {
	ID          int64     `json:"addressId" db:"id"`
	UserID      int64     `json:"userId" db:"user_id"`
	AddressName string    `json:"addressName" db:"address_name"`
	AddressDesc string    `json:"addressDesc" db:"address_desc"`
	Phone       string    `json:"phone" db:"phone"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

type Input struct {
	AddressName string
	AddressDesc string
	Phone       string
}
