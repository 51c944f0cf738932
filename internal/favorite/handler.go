package favorite

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/food-order-backend/internal/apperr"
	"github.com/wichananm65/food-order-backend/internal/auth"
	"github.com/wichananm65/food-order-backend/internal/validation"
)

// Handler exposes a customer's favorite restaurants.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	customer := auth.RequireRole(auth.RoleCustomer)

	app.Get("/api/v1/favorites", customer, h.getFavorites)
	app.Post("/api/v1/favorites", customer, h.addFavorite)
	app.Delete("/api/v1/favorites/:restaurantId", customer, h.removeFavorite)
}

type favoriteRequest struct {
	RestaurantID int64 `json:"restaurantId" validate:"required,gt=0"`
}

func (h *Handler) getFavorites(c *fiber.Ctx) error {
	actor, err := auth.ActorFromCtx(c)
	if err != nil {
		return apperr.Write(c, err)
	}
	favs, err := h.service.List(c.UserContext(), actor.UserID)
	if err != nil {
		return apperr.Write(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "favorites": favs})
}

func (h *Handler) addFavorite(c *fiber.Ctx) error {
	actor, err := auth.ActorFromCtx(c)
	if err != nil {
		return apperr.Write(c, err)
	}
	payload := new(favoriteRequest)
	if err := validation.ParseBody(c, payload); err != nil {
		return apperr.Write(c, err)
	}

	if err := h.service.Add(c.UserContext(), actor.UserID, payload.RestaurantID); err != nil {
		return apperr.Write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Restaurant added to favorites"})
}

func (h *Handler) removeFavorite(c *fiber.Ctx) error {
	actor, err := auth.ActorFromCtx(c)
	if err != nil {
		return apperr.Write(c, err)
	}
	id, err := c.ParamsInt("restaurantId")
	if err != nil || id <= 0 {
		return apperr.Write(c, apperr.Validation("Invalid restaurant id"))
	}

	if err := h.service.Remove(c.UserContext(), actor.UserID, int64(id)); err != nil {
		return apperr.Write(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Restaurant removed from favorites"})
}
