package address

import (
	"context"
	"errors"
	"strings"

	"github.com/wichananm65/food-order-backend/internal/apperr"
	"github.com/wichananm65/food-order-backend/internal/auth"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, actor auth.Actor) ([]Address, error) {
	out, err := s.repo.List(ctx, actor.UserID)
	if err != nil {
		return nil, apperr.Persistence("Failed to load addresses", err)
	}
	return out, nil
}

func (s *Service) Add(ctx context.Context, actor auth.Actor, in Input) (Address, error) {
	a, err := s.repo.Create(ctx, actor.UserID, clean(in))
	if err != nil {
		return Address{}, apperr.Persistence("Failed to save address", err)
	}
	return a, nil
}

func (s *Service) Update(ctx context.Context, actor auth.Actor, id int64, in Input) (Address, error) {
	a, err := s.repo.Update(ctx, actor.UserID, id, clean(in))
	return a, s.wrap(err, "Failed to update address")
}

func (s *Service) Delete(ctx context.Context, actor auth.Actor, id int64) error {
	return s.wrap(s.repo.Delete(ctx, actor.UserID, id), "Failed to delete address")
}

// Resolve returns the delivery text of one of the caller's saved addresses.
func (s *Service) Resolve(ctx context.Context, actor auth.Actor, id int64) (string, error) {
	a, err := s.repo.Find(ctx, actor.UserID, id)
	if err != nil {
		return "", s.wrap(err, "Failed to load address")
	}
	return a.AddressDesc, nil
}

func (s *Service) wrap(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound):
		return apperr.NotFound("Address not found")
	default:
		return apperr.Persistence(op, err)
	}
}

func clean(in Input) Input {
	return Input{
		AddressName: strings.TrimSpace(in.AddressName),
		AddressDesc: strings.TrimSpace(in.AddressDesc),
		Phone:       strings.TrimSpace(in.Phone),
	}
}
