package recommended

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/food-order-backend/internal/apperr"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/dishes/recommended", h.getRecommended)
}

// getRecommended supports ?limit=12&offset=0.
func (h *Handler) getRecommended(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 12)
	if limit <= 0 {
		limit = 12
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	items, err := h.service.List(c.UserContext(), limit, offset)
	if err != nil {
		return apperr.Write(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "dishes": items})
}
