package dish

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var (
	ErrNotFound = errors.New("dish not found")
	// ErrInUse is returned when a dish is still referenced by order items.
	ErrInUse = errors.New("dish referenced by orders")
)

type Repository interface {
	ListByRestaurant(ctx context.Context, restaurantID int64) ([]Dish, error)
	FindByID(ctx context.Context, id int64) (Dish, error)
	FindByIDs(ctx context.Context, ids []int64) ([]Dish, error)
	Create(ctx context.Context, d Dish) (Dish, error)
	Update(ctx context.Context, d Dish) (Dish, error)
	Delete(ctx context.Context, id, restaurantID int64) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu     sync.RWMutex
	dishes map[int64]Dish
	// ordered marks dishes that appear in orders and cannot be deleted.
	ordered map[int64]bool
	nextID  int64
}

func NewInMemoryRepository(seed []Dish) *InMemoryRepository {
	r := &InMemoryRepository{
		dishes:  make(map[int64]Dish, len(seed)),
		ordered: make(map[int64]bool),
		nextID:  1,
	}
	for _, d := range seed {
		r.dishes[d.ID] = d
		if d.ID >= r.nextID {
			r.nextID = d.ID + 1
		}
	}
	return r
}

// MarkOrdered records that id is referenced by an order item.
func (r *InMemoryRepository) MarkOrdered(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ordered[id] = true
}

func (r *InMemoryRepository) ListByRestaurant(ctx context.Context, restaurantID int64) ([]Dish, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Dish, 0)
	for _, d := range r.dishes {
		if d.RestaurantID == restaurantID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id int64) (Dish, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.dishes[id]
	if !ok {
		return Dish{}, ErrNotFound
	}
	return d, nil
}

func (r *InMemoryRepository) FindByIDs(ctx context.Context, ids []int64) ([]Dish, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Dish, 0, len(ids))
	for _, id := range ids {
		if d, ok := r.dishes[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, d Dish) (Dish, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d.ID = r.nextID
	r.nextID++
	d.CreatedAt = time.Now().UTC()
	d.UpdatedAt = d.CreatedAt
	r.dishes[d.ID] = d
	return d, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, d Dish) (Dish, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.dishes[d.ID]
	if !ok || cur.RestaurantID != d.RestaurantID {
		return Dish{}, ErrNotFound
	}
	d.CreatedAt = cur.CreatedAt
	d.UpdatedAt = time.Now().UTC()
	r.dishes[d.ID] = d
	return d, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id, restaurantID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.dishes[id]
	if !ok || cur.RestaurantID != restaurantID {
		return ErrNotFound
	}
	if r.ordered[id] {
		return ErrInUse
	}
	delete(r.dishes, id)
	return nil
}
