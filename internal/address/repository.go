package address

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var ErrNotFound = errors.New("address not found")

// Repository scopes every lookup to the owning user.
type Repository interface {
	List(ctx context.Context, userID int64) ([]Address, error)
	Find(ctx context.Context, userID, id int64) (Address, error)
	Create(ctx context.Context, userID int64, in Input) (Address, error)
	Update(ctx context.Context, userID, id int64, in Input) (Address, error)
	Delete(ctx context.Context, userID, id int64) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu     sync.RWMutex
	byID   map[int64]Address
	nextID int64
}

func NewInMemoryRepository(seed []Address) *InMemoryRepository {
	r := &InMemoryRepository{byID: make(map[int64]Address, len(seed)), nextID: 1}
	for _, a := range seed {
		r.byID[a.ID] = a
		if a.ID >= r.nextID {
			r.nextID = a.ID + 1
		}
	}
	return r
}

func (r *InMemoryRepository) List(ctx context.Context, userID int64) ([]Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Address{}
	for _, a := range r.byID {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *InMemoryRepository) Find(ctx context.Context, userID, id int64) (Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok || a.UserID != userID {
		return Address{}, ErrNotFound
	}
	return a, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, userID int64, in Input) (Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	a := Address{
		ID:          r.nextID,
		UserID:      userID,
		AddressName: in.AddressName,
		AddressDesc: in.AddressDesc,
		Phone:       in.Phone,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.nextID++
	r.byID[a.ID] = a
	return a, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, userID, id int64, in Input) (Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok || a.UserID != userID {
		return Address{}, ErrNotFound
	}
	a.AddressName = in.AddressName
	a.AddressDesc = in.AddressDesc
	a.Phone = in.Phone
	a.UpdatedAt = time.Now().UTC()
	r.byID[id] = a
	return a, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, userID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok || a.UserID != userID {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
