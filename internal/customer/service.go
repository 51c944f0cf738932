package customer

import (
	"context"
	"errors"
	"mime/multipart"

	"go.uber.org/zap"

	"github.com/wichananm65/food-order-backend/internal/apperr"
	"github.com/wichananm65/food-order-backend/internal/auth"
	"github.com/wichananm65/food-order-backend/internal/infrastructure/blobstore"
	"github.com/wichananm65/food-order-backend/internal/logger"
)

const pictureFolder = "customers"

type Service struct {
	repo  Repository
	blobs blobstore.Store
}

func NewService(repo Repository, blobs blobstore.Store) *Service {
	return &Service{repo: repo, blobs: blobs}
}

func (s *Service) Profile(ctx context.Context, actor auth.Actor) (Profile, error) {
	p, err := s.repo.FindByUserID(ctx, actor.UserID)
	if errors.Is(err, ErrNotFound) {
		return Profile{}, apperr.NotFound("Customer profile not found")
	}
	if err != nil {
		return Profile{}, apperr.Persistence("Failed to load customer profile", err)
	}
	return p, nil
}

func (s *Service) UpdateProfile(ctx context.Context, actor auth.Actor, upd ProfileUpdate) (Profile, error) {
	err := s.repo.Update(ctx, actor.UserID, upd)
	if errors.Is(err, ErrNotFound) {
		return Profile{}, apperr.NotFound("Customer profile not found")
	}
	if err != nil {
		return Profile{}, apperr.Persistence("Failed to update customer profile", err)
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
			return Profile{}, apperr.NotFound("Customer profile not found")
		}
		return Profile{}, apperr.Persistence("Failed to update profile picture", err)
	}
	s.remove(ctx, old)
	return s.Profile(ctx, actor)
}

func (s *Service) remove(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.blobs.Delete(ctx, path); err != nil {
		logger.FromContext(ctx).Warn("failed to delete customer picture", zap.String("path", path), zap.Error(err))
	}
}
