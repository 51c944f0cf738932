package recommended

import (
	"context"

	"github.com/wichananm65/food-order-backend/internal/apperr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns up to limit dishes ordered by units sold, starting at offset.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Item, error) {
	items, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, apperr.Persistence("Failed to load recommended dishes", err)
	}
	return items, nil
}
