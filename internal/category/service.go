package category

import (
	"context"

	"github.com/wichananm65/food-order-backend/internal/apperr"
)

type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// List returns up to limit categories ordered by name.
func (s *Service) List(ctx context.Context, limit int) ([]Category, error) {
	items, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, apperr.Persistence("Failed to load categories", err)
	}
	return items, nil
}
