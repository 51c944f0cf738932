package restaurant

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var ErrNotFound = errors.New("restaurant not found")

type Repository interface {
	FindByID(ctx context.Context, id int64) (Profile, error)
	FindByUserID(ctx context.Context, userID int64) (Profile, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, f ListFilter) ([]Summary, error)
	Update(ctx context.Context, userID int64, upd ProfileUpdate) error
	// SetPicture stores path and returns the picture it replaced.
	SetPicture(ctx context.Context, userID int64, path string) (string, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu       sync.RWMutex
	profiles map[int64]Profile
}

func NewInMemoryRepository(seed []Profile) *InMemoryRepository {
	r := &InMemoryRepository{profiles: make(map[int64]Profile, len(seed))}
	for _, p := range seed {
		if p.DeliveryType == "" {
			p.DeliveryType = DeliveryBoth
		}
		r.profiles[p.ID] = p
	}
	return r
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id int64) (Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[id]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

func (r *InMemoryRepository) FindByUserID(ctx context.Context, userID int64) (Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return Profile{}, ErrNotFound
}

func (r *InMemoryRepository) Exists(ctx context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.profiles[id]
	return ok, nil
}

func (r *InMemoryRepository) List(ctx context.Context, f ListFilter) ([]Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Summary, 0, len(r.profiles))
	for _, p := range r.profiles {
		if f.DeliveryType != "" && p.DeliveryType != f.DeliveryType && p.DeliveryType != DeliveryBoth {
			continue
		}
		out = append(out, p.summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	if f.Offset >= len(out) {
		return []Summary{}, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, userID int64, upd ProfileUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, p := range r.profiles {
		if p.UserID == userID {
			p.Name = upd.Name
			p.Description = upd.Description
			p.Location = upd.Location
			p.DeliveryType = upd.DeliveryType
			p.ContactInfo = upd.ContactInfo
			p.OpeningTime = upd.OpeningTime
			p.ClosingTime = upd.ClosingTime
			r.profiles[id] = p
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) SetPicture(ctx context.Context, userID int64, path string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, p := range r.profiles {
		if p.UserID == userID {
			old := p.ProfilePicture
			p.ProfilePicture = path
			r.profiles[id] = p
			return old, nil
		}
	}
	return "", ErrNotFound
}
