package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

var ErrNotFound = errors.New("order not found")

// Repository defines persistence operations for orders. Create must store
// the header and every item atomically.
type Repository interface {
	Create(ctx context.Context, ord Order) (Order, error)
	FindByID(ctx context.Context, id int64) (Order, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	ListByCustomer(ctx context.Context, customerID int64) ([]Order, error)
	// ListByRestaurant filters by status unless status is empty.
	ListByRestaurant(ctx context.Context, restaurantID int64, status Status) ([]Order, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu         sync.RWMutex
	orders     map[int64]Order
	nextID     int64
	nextItemID int64

	// itemHook runs before each item is staged; a non-nil error aborts Create
	// and nothing is stored.
	itemHook func(index int, it Item) error
}

func NewInMemoryRepository(seed []Order) *InMemoryRepository {
	r := &InMemoryRepository{orders: make(map[int64]Order, len(seed))}
	for _, o := range seed {
		r.orders[o.ID] = cloneOrder(o)
		if o.ID > r.nextID {
			r.nextID = o.ID
		}
		for _, it := range o.Items {
			if it.ID > r.nextItemID {
				r.nextItemID = it.ID
			}
		}
	}
	return r
}

func (r *InMemoryRepository) Create(ctx context.Context, ord Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	staged := cloneOrder(ord)
	id := r.nextID + 1
	itemID := r.nextItemID
	for i := range staged.Items {
		if r.itemHook != nil {
			if err := r.itemHook(i, staged.Items[i]); err != nil {
				return Order{}, fmt.Errorf("insert order item %d: %w", i, err)
			}
		}
		itemID++
		staged.Items[i].ID = itemID
		staged.Items[i].OrderID = id
	}

	staged.ID = id
	staged.CreatedAt = time.Now().UTC()
	r.nextID = id
	r.nextItemID = itemID
	r.orders[id] = staged
	return cloneOrder(staged), nil
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id int64) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return cloneOrder(o), nil
}

func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	r.orders[id] = o
	return nil
}

func (r *InMemoryRepository) ListByCustomer(ctx context.Context, customerID int64) ([]Order, error) {
	return r.list(func(o Order) bool { return o.CustomerID == customerID }), nil
}

func (r *InMemoryRepository) ListByRestaurant(ctx context.Context, restaurantID int64, status Status) ([]Order, error) {
	return r.list(func(o Order) bool {
		return o.RestaurantID == restaurantID && (status == "" || o.Status == status)
	}), nil
}

// Count returns the number of stored orders and items.
func (r *InMemoryRepository) Count() (orders, items int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		orders++
		items += len(o.Items)
	}
	return orders, items
}

func (r *InMemoryRepository) list(keep func(Order) bool) []Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, 0)
	for _, o := range r.orders {
		if keep(o) {
			out = append(out, cloneOrder(o))
		}
	}
	// newest first, like the SQL listing
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func cloneOrder(o Order) Order {
	items := make([]Item, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}
