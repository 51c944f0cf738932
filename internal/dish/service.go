package dish

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wichananm65/food-order-backend/internal/apperr"
	"github.com/wichananm65/food-order-backend/internal/auth"
	"github.com/wichananm65/food-order-backend/internal/infrastructure/blobstore"
	"github.com/wichananm65/food-order-backend/internal/logger"
)

const imageFolder = "dishes"

// Service manages restaurant menus.
type Service struct {
	repo  Repository
	blobs blobstore.Store
}

func NewService(repo Repository, blobs blobstore.Store) *Service {
	return &Service{repo: repo, blobs: blobs}
}

// Menu returns the dishes of the calling restaurant.
func (s *Service) Menu(ctx context.Context, actor auth.Actor) ([]Dish, error) {
	if err := requireRestaurant(actor); err != nil {
		return nil, err
	}
	return s.MenuOf(ctx, actor.ProfileID)
}

// MenuOf returns the dishes of any restaurant.
func (s *Service) MenuOf(ctx context.Context, restaurantID int64) ([]Dish, error) {
	dishes, err := s.repo.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, apperr.Persistence("Failed to load menu", err)
	}
	return dishes, nil
}

// Add creates a dish for the calling restaurant. image may be nil.
func (s *Service) Add(ctx context.Context, actor auth.Actor, in Input, image *multipart.FileHeader) (Dish, error) {
	if err := requireRestaurant(actor); err != nil {
		return Dish{}, err
	}
	if err := validateInput(in); err != nil {
		return Dish{}, err
	}

	d := Dish{RestaurantID: actor.ProfileID}
	in.apply(&d)

	if image != nil {
		path, err := s.saveImage(ctx, image)
		if err != nil {
			return Dish{}, err
		}
		d.Image = path
	}

	created, err := s.repo.Create(ctx, d)
	if err != nil {
		s.removeImage(ctx, d.Image)
		return Dish{}, apperr.Persistence("Failed to add dish", err)
	}
	logger.FromContext(ctx).Info("dish added",
		zap.Int64("dish_id", created.ID),
		zap.Int64("restaurant_id", created.RestaurantID),
	)
	return created, nil
}

// Update replaces the editable fields of an owned dish. A new image
// replaces the previous one.
func (s *Service) Update(ctx context.Context, actor auth.Actor, id int64, in Input, image *multipart.FileHeader) (Dish, error) {
	if err := requireRestaurant(actor); err != nil {
		return Dish{}, err
	}
	if err := validateInput(in); err != nil {
		return Dish{}, err
	}
	d, err := s.owned(ctx, actor, id)
	if err != nil {
		return Dish{}, err
	}

	oldImage := d.Image
	in.apply(&d)
	if image != nil {
		path, err := s.saveImage(ctx, image)
		if err != nil {
			return Dish{}, err
		}
		d.Image = path
	}

	updated, err := s.repo.Update(ctx, d)
	if err != nil {
		if d.Image != oldImage {
			s.removeImage(ctx, d.Image)
		}
		if errors.Is(err, ErrNotFound) {
			return Dish{}, notOwned()
		}
		return Dish{}, apperr.Persistence("Failed to update dish", err)
	}
	if updated.Image != oldImage {
		s.removeImage(ctx, oldImage)
	}
	return updated, nil
}

// Delete removes an owned dish and its image. Dishes that appear in
// orders are kept.
func (s *Service) Delete(ctx context.Context, actor auth.Actor, id int64) error {
	if err := requireRestaurant(actor); err != nil {
		return err
	}
	d, err := s.owned(ctx, actor, id)
	if err != nil {
		return err
	}

	switch err := s.repo.Delete(ctx, id, actor.ProfileID); {
	case errors.Is(err, ErrInUse):
		return apperr.Validation("Dish cannot be deleted because it appears in existing orders")
	case errors.Is(err, ErrNotFound):
		return notOwned()
	case err != nil:
		return apperr.Persistence("Failed to delete dish", err)
	}
	s.removeImage(ctx, d.Image)
	logger.FromContext(ctx).Info("dish deleted", zap.Int64("dish_id", id), zap.Int64("restaurant_id", actor.ProfileID))
	return nil
}

// Dishes returns the dishes with the given ids that still exist.
func (s *Service) Dishes(ctx context.Context, ids []int64) ([]Dish, error) {
	dishes, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Persistence("Failed to load dishes", err)
	}
	return dishes, nil
}

// DishPrices returns current prices for those ids that belong to
// restaurantID.
func (s *Service) DishPrices(ctx context.Context, restaurantID int64, ids []int64) (map[int64]decimal.Decimal, error) {
	dishes, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	prices := make(map[int64]decimal.Decimal, len(dishes))
	for _, d := range dishes {
		if d.RestaurantID == restaurantID {
			prices[d.ID] = d.Price
		}
	}
	return prices, nil
}

func (s *Service) owned(ctx context.Context, actor auth.Actor, id int64) (Dish, error) {
	d, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Dish{}, notOwned()
	}
	if err != nil {
		return Dish{}, apperr.Persistence("Failed to load dish", err)
	}
	if d.RestaurantID != actor.ProfileID {
		return Dish{}, notOwned()
	}
	return d, nil
}

func (s *Service) saveImage(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	path, err := blobstore.SaveImage(ctx, s.blobs, imageFolder, fh)
	if err != nil {
		if apperr.Is(err, apperr.KindValidation) {
			return "", err
		}
		return "", apperr.Persistence("Failed to store image", err)
	}
	return path, nil
}

func (s *Service) removeImage(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.blobs.Delete(ctx, path); err != nil {
		logger.FromContext(ctx).Warn("failed to delete dish image", zap.String("path", path), zap.Error(err))
	}
}

func validateInput(in Input) error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.Validation("name is required")
	}
	if strings.TrimSpace(in.Category) == "" {
		return apperr.Validation("category is required")
	}
	if in.Price.IsNegative() {
		return apperr.Validation("price must not be negative")
	}
	return nil
}

func requireRestaurant(actor auth.Actor) error {
	if !actor.IsRestaurant() || actor.ProfileID <= 0 {
		return apperr.AccessDenied("Access denied. Restaurant role required.")
	}
	return nil
}

func notOwned() error {
	return apperr.NotFound("Dish not found or not owned by this restaurant")
}
