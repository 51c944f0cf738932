package cart

import (
	"context"
	"sync"
	"time"
)

// Repository persists carts. Get returns an empty cart, not an error, when
// the customer has none.
type Repository interface {
	Get(ctx context.Context, userID int64) (Cart, error)
	Save(ctx context.Context, c Cart) error
	Clear(ctx context.Context, userID int64) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu    sync.RWMutex
	carts map[int64]Cart
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{carts: make(map[int64]Cart)}
}

func (r *InMemoryRepository) Get(ctx context.Context, userID int64) (Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.carts[userID]
	if !ok {
		return empty(userID), nil
	}
	items := make(map[int64]int, len(c.Items))
	for id, q := range c.Items {
		items[id] = q
	}
	c.Items = items
	return c, nil
}

func (r *InMemoryRepository) Save(ctx context.Context, c Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.UpdatedAt = time.Now().UTC()
	r.carts[c.UserID] = c
	return nil
}

func (r *InMemoryRepository) Clear(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, userID)
	return nil
}
