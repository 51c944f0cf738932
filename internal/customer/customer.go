package customer

// Profile is a customer account's contact details.
type Profile struct {
	ID             int64  `json:"id" db:"id"`
	UserID         int64  `json:"userId" db:"user_id"`
	Name           string `json:"name" db:"name"`
	Email          string `json:"email" db:"email"`
	ProfilePicture string `json:"profilePicture" db:"profile_picture"`
	Address        string `json:"address" db:"address"`
	City           string `json:"city" db:"city"`
	State          string `json:"state" db:"state"`
	Country        string `json:"country" db:"country"`
	Phone          string `json:"phone" db:"phone"`
}

type ProfileUpdate struct {
	Name    string
	Address string
	City    string
	State   string
	Country string
	Phone   string
}
