package restaurant

import (
	"context"
	"errors"
	"mime/multipart"

	"go.uber.org/zap"

	"github.com/wichananm65/food-order-backend/internal/apperr"
	"github.com/wichananm65/food-order-backend/internal/auth"
	"github.com/wichananm65/food-order-backend/internal/dish"
	"github.com/wichananm65/food-order-backend/internal/infrastructure/blobstore"
	"github.com/wichananm65/food-order-backend/internal/logger"
)

const pictureFolder = "restaurants"

// FavoriteLookup reports which restaurants a customer has favorited.
type FavoriteLookup interface {
	FavoriteIDs(ctx context.Context, customerID int64) (map[int64]bool, error)
}

// MenuSource lists a restaurant's dishes.
type MenuSource interface {
	MenuOf(ctx context.Context, restaurantID int64) ([]dish.Dish, error)
}

type Service struct {
	repo      Repository
	blobs     blobstore.Store
	favorites FavoriteLookup
	menus     MenuSource
}

func NewService(repo Repository, blobs blobstore.Store, favorites FavoriteLookup, menus MenuSource) *Service {
	return &Service{repo: repo, blobs: blobs, favorites: favorites, menus: menus}
}

// RestaurantExists reports whether a restaurant profile with id exists.
func (s *Service) RestaurantExists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// Profile returns the calling restaurant's own profile.
func (s *Service) Profile(ctx context.Context, actor auth.Actor) (Profile, error) {
	p, err := s.repo.FindByUserID(ctx, actor.UserID)
	if errors.Is(err, ErrNotFound) {
		return Profile{}, apperr.NotFound("Restaurant profile not found")
	}
	if err != nil {
		return Profile{}, apperr.Persistence("Failed to load restaurant profile", err)
	}
	return p, nil
}

func (s *Service) UpdateProfile(ctx context.Context, actor auth.Actor, upd ProfileUpdate) (Profile, error) {
	if upd.DeliveryType == "" {
		upd.DeliveryType = DeliveryBoth
	}
	if !ValidDeliveryType(upd.DeliveryType) {
		return Profile{}, apperr.Validation("deliveryType must be one of [Delivery Pickup Both]")
	}

	err := s.repo.Update(ctx, actor.UserID, upd)
	if errors.Is(err, ErrNotFound) {
		return Profile{}, apperr.NotFound("Restaurant profile not found")
	}
	if err != nil {
		return Profile{}, apperr.Persistence("Failed to update restaurant profile", err)
	}
	return s.Profile(ctx, actor)
}

// UploadPicture stores a new profile picture and removes the previous one.
func (s *Service) UploadPicture(ctx context.Context, actor auth.Actor, fh *multipart.FileHeader) (Profile, error) {
	path, err := blobstore.SaveImage(ctx, s.blobs, pictureFolder, fh)
	if err != nil {
		if apperr.Is(err, apperr.KindValidation) {
			return Profile{}, err
		}
		return Profile{}, apperr.Persistence("Failed to store image", err)
	}

	old, err := s.repo.SetPicture(ctx, actor.UserID, path)
	if err != nil {
		s.remove(ctx, path)
		if errors.Is(err, ErrNotFound) {
			return Profile{}, apperr.NotFound("Restaurant profile not found")
		}
		return Profile{}, apperr.Persistence("Failed to update profile picture", err)
	}
	s.remove(ctx, old)
	return s.Profile(ctx, actor)
}

// List returns restaurants offering deliveryType, flagged with the
// caller's favorites.
func (s *Service) List(ctx context.Context, actor auth.Actor, f ListFilter) ([]Summary, error) {
	if f.DeliveryType != "" && !ValidDeliveryType(f.DeliveryType) {
		return nil, apperr.Validation("deliveryType must be one of [Delivery Pickup Both]")
	}
	list, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, apperr.Persistence("Failed to list restaurants", err)
	}

	favs, err := s.favoriteIDs(ctx, actor)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].IsFavorite = favs[list[i].ID]
	}
	return list, nil
}

// Detail returns one restaurant with its menu.
func (s *Service) Detail(ctx context.Context, actor auth.Actor, id int64) (Detail, error) {
	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Detail{}, apperr.NotFound("Restaurant not found")
	}
	if err != nil {
		return Detail{}, apperr.Persistence("Failed to load restaurant", err)
	}

	menu, err := s.menus.MenuOf(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	favs, err := s.favoriteIDs(ctx, actor)
	if err != nil {
		return Detail{}, err
	}
	// the owner's email is not part of the public view
	p.Email = ""
	return Detail{Profile: p, IsFavorite: favs[id], Menu: menu}, nil
}

func (s *Service) favoriteIDs(ctx context.Context, actor auth.Actor) (map[int64]bool, error) {
	if !actor.IsCustomer() || s.favorites == nil {
		return map[int64]bool{}, nil
	}
	favs, err := s.favorites.FavoriteIDs(ctx, actor.UserID)
	if err != nil {
		return nil, apperr.Persistence("Failed to load favorites", err)
	}
	return favs, nil
}

func (s *Service) remove(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.blobs.Delete(ctx, path); err != nil {
		logger.FromContext(ctx).Warn("failed to delete restaurant picture", zap.String("path", path), zap.Error(err))
	}
}
