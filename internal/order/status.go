package order

import "github.com/wichananm65/food-order-backend/internal/auth"

type Status string

const (
	StatusNew           Status = "New"
	StatusOrderReceived Status = "Order Received"
	StatusPreparing     Status = "Preparing"
	StatusOnTheWay      Status = "On the Way"
	StatusPickupReady   Status = "Pick-up Ready"
	StatusDelivered     Status = "Delivered"
	StatusPickedUp      Status = "Picked Up"
	StatusCancelled     Status = "Cancelled"
	StatusRejected      Status = "Rejected"
)

var allStatuses = []Status{
	StatusNew, StatusOrderReceived, StatusPreparing, StatusOnTheWay, StatusPickupReady,
	StatusDelivered, StatusPickedUp, StatusCancelled, StatusRejected,
}

// transitions is the single source of truth for status changes, keyed by
// the role asking for the change. Restaurants may cancel from any
// non-terminal status; customers may only cancel.
var transitions = map[auth.Role]map[Status][]Status{
	auth.RoleRestaurant: {
		StatusNew:           {StatusOrderReceived, StatusCancelled, StatusRejected},
		StatusOrderReceived: {StatusPreparing, StatusCancelled, StatusRejected},
		StatusPreparing:     {StatusOnTheWay, StatusPickupReady, StatusCancelled},
		StatusOnTheWay:      {StatusDelivered, StatusCancelled},
		StatusPickupReady:   {StatusPickedUp, StatusCancelled},
	},
	auth.RoleCustomer: {
		StatusNew:           {StatusCancelled},
		StatusOrderReceived: {StatusCancelled},
		StatusPreparing:     {StatusCancelled},
		StatusOnTheWay:      {StatusCancelled},
		StatusPickupReady:   {StatusCancelled},
	},
}

// ParseStatus matches s against the known statuses exactly.
func ParseStatus(s string) (Status, bool) {
	for _, st := range allStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

func (s Status) Valid() bool {
	_, ok := ParseStatus(string(s))
	return ok
}

// IsTerminal reports whether no role can move an order out of s.
func (s Status) IsTerminal() bool {
	for _, table := range transitions {
		if len(table[s]) > 0 {
			return false
		}
	}
	return true
}

// CanTransition reports whether role may move an order from one status to another.
func CanTransition(role auth.Role, from, to Status) bool {
	for _, next := range transitions[role][from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses lists what role may move an order in status from to.
func NextStatuses(role auth.Role, from Status) []Status {
	next := transitions[role][from]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}
