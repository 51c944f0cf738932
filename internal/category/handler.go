package category

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
	app.Get("/api/v1/categories", h.getCategories)
}

func (h *Handler) getCategories(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	if limit <= 0 {
		limit = 100
	}
	items, err := h.service.List(c.UserContext(), limit)
	if err != nil {
		return apperr.Write(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "categories": items})
}
