package customer

import (
	"context"
	"errors"
	"sync"
)

var ErrNotFound = errors.New("customer profile not found")

type Repository interface {
	FindByUserID(ctx context.Context, userID int64) (Profile, error)
	Update(ctx context.Context, userID int64, upd ProfileUpdate) error
	// SetPicture stores path and returns the picture it replaced.
	SetPicture(ctx context.Context, userID int64, path string) (string, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu       sync.RWMutex
	profiles map[int64]Profile
}

// NewInMemoryRepository indexes seed by user id.
func NewInMemoryRepository(seed []Profile) *InMemoryRepository {
	r := &InMemoryRepository{profiles: make(map[int64]Profile, len(seed))}
	for _, p := range seed {
		r.profiles[p.UserID] = p
	}
	return r
}

func (r *InMemoryRepository) FindByUserID(ctx context.Context, userID int64) (Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[userID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, userID int64, upd ProfileUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[userID]
	if !ok {
		return ErrNotFound
	}
	p.Name = upd.Name
	p.Address = upd.Address
	p.City = upd.City
	p.State = upd.State
	p.Country = upd.Country
	p.Phone = upd.Phone
	r.profiles[userID] = p
	return nil
}

func (r *InMemoryRepository) SetPicture(ctx context.Context, userID int64, path string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[userID]
	if !ok {
		return "", ErrNotFound
	}
	old := p.ProfilePicture
	p.ProfilePicture = path
	r.profiles[userID] = p
	return old, nil
}
