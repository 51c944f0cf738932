package favorite

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/wichananm65/food-order-backend/internal/apperr"
	"github.com/wichananm65/food-order-backend/internal/logger"
	"github.com/wichananm65/food-order-backend/internal/restaurant"
)

// Directory answers whether a restaurant exists.
type Directory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	repo        Repository
	restaurants Directory
}

func NewService(repo Repository, restaurants Directory) *Service {
	return &Service{repo: repo, restaurants: restaurants}
}

func (s *Service) Add(ctx context.Context, customerID, restaurantID int64) error {
	if restaurantID <= 0 {
		return apperr.Validation("restaurantId is required")
	}
	ok, err := s.restaurants.Exists(ctx, restaurantID)
	if err != nil {
		return apperr.Persistence("Failed to look up restaurant", err)
	}
	if !ok {
		return apperr.NotFound("Restaurant not found")
	}

	switch err := s.repo.Add(ctx, customerID, restaurantID); {
	case errors.Is(err, ErrAlreadyFavorite):
		return apperr.Conflict("Restaurant is already in favorites")
	case errors.Is(err, ErrRestaurantNotFound):
		return apperr.NotFound("Restaurant not found")
	case err != nil:
		return apperr.Persistence("Failed to add favorite", err)
	}
	logger.FromContext(ctx).Debug("favorite added",
		zap.Int64("customer_id", customerID),
		zap.Int64("restaurant_id", restaurantID),
	)
	return nil
}

func (s *Service) Remove(ctx context.Context, customerID, restaurantID int64) error {
	if err := s.repo.Remove(ctx, customerID, restaurantID); err != nil {
		return apperr.Persistence("Failed to remove favorite", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, customerID int64) ([]restaurant.Summary, error) {
	list, err := s.repo.List(ctx, customerID)
	if err != nil {
		return nil, apperr.Persistence("Failed to load favorites", err)
	}
	return list, nil
}

// FavoriteIDs returns the set of restaurant ids the customer favorited.
func (s *Service) FavoriteIDs(ctx context.Context, customerID int64) (map[int64]bool, error) {
	return s.repo.IDs(ctx, customerID)
}
