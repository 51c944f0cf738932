package favorite

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/wichananm65/food-order-backend/internal/restaurant"
)

var (
	ErrAlreadyFavorite    = errors.New("restaurant already in favorites")
	ErrRestaurantNotFound = errors.New("restaurant not found")
)

type Repository interface {
	Add(ctx context.Context, customerID, restaurantID int64) error
	// Remove succeeds whether or not the pair existed.
	Remove(ctx context.Context, customerID, restaurantID int64) error
	List(ctx context.Context, customerID int64) ([]restaurant.Summary, error)
	IDs(ctx context.Context, customerID int64) (map[int64]bool, error)
}

// InMemoryRepository is used for tests and local scenarios. Restaurants
// must be seeded for List to describe them.
type InMemoryRepository struct {
	mu          sync.RWMutex
	restaurants map[int64]restaurant.Summary
	favorites   map[int64]map[int64]bool
}

func NewInMemoryRepository(restaurants []restaurant.Summary) *InMemoryRepository {
	r := &InMemoryRepository{
		restaurants: make(map[int64]restaurant.Summary, len(restaurants)),
		favorites:   make(map[int64]map[int64]bool),
	}
	for _, s := range restaurants {
		r.restaurants[s.ID] = s
	}
	return r
}

func (r *InMemoryRepository) Add(ctx context.Context, customerID, restaurantID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.restaurants[restaurantID]; !ok {
		return ErrRestaurantNotFound
	}
	set := r.favorites[customerID]
	if set == nil {
		set = make(map[int64]bool)
		r.favorites[customerID] = set
	}
	if set[restaurantID] {
		return ErrAlreadyFavorite
	}
	set[restaurantID] = true
	return nil
}

func (r *InMemoryRepository) Remove(ctx context.Context, customerID, restaurantID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.favorites[customerID], restaurantID)
	return nil
}

func (r *InMemoryRepository) List(ctx context.Context, customerID int64) ([]restaurant.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]restaurant.Summary, 0, len(r.favorites[customerID]))
	for id := range r.favorites[customerID] {
		s := r.restaurants[id]
		s.IsFavorite = true
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *InMemoryRepository) IDs(ctx context.Context, customerID int64) (map[int64]bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[int64]bool, len(r.favorites[customerID]))
	for id := range r.favorites[customerID] {
		out[id] = true
	}
	return out, nil
}
