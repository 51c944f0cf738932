package user

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/wichananm65/food-order-backend/internal/auth"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("email already exists")
)

type Repository interface {
	// Create stores the user and its empty role profile in one step and
	// returns the profile id.
	Create(ctx context.Context, u User, location string) (User, int64, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id int64) (User, error)
	ProfileID(ctx context.Context, u User) (int64, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu            sync.RWMutex
	users         []User
	profiles      map[int64]int64
	nextID        int64
	nextProfileID int64
}

func NewInMemoryRepository(seed []User) *InMemoryRepository {
	repo := &InMemoryRepository{
		users:         make([]User, 0, len(seed)),
		profiles:      make(map[int64]int64),
		nextID:        1,
		nextProfileID: 1,
	}
	for _, u := range seed {
		repo.users = append(repo.users, u)
		if u.ID >= repo.nextID {
			repo.nextID = u.ID + 1
		}
		repo.profiles[u.ID] = repo.nextProfileID
		repo.nextProfileID++
	}
	return repo
}

func (r *InMemoryRepository) Create(ctx context.Context, u User, location string) (User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return User{}, 0, ErrEmailExists
		}
	}

	u.ID = r.nextID
	r.nextID++
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	r.users = append(r.users, u)

	profileID := r.nextProfileID
	r.nextProfileID++
	r.profiles[u.ID] = profileID
	return u, profileID, nil
}

func (r *InMemoryRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id int64) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *InMemoryRepository) ProfileID(ctx context.Context, u User) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.profiles[u.ID]
	if !ok {
		return 0, ErrNotFound
	}
	return id, nil
}

func profileTable(role auth.Role) string {
	if role == auth.RoleRestaurant {
		return "restaurant_profiles"
	}
	return "customer_profiles"
}
