package customer

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/food-order-backend/internal/apperr"
	"github.com/wichananm65/food-order-backend/internal/auth"
	"github.com/wichananm65/food-order-backend/internal/validation"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	customer := auth.RequireRole(auth.RoleCustomer)

	app.Get("/api/v1/customer/profile", customer, h.getProfile)
	app.Put("/api/v1/customer/profile", customer, h.updateProfile)
	app.Post("/api/v1/customer/profile/picture", customer, h.uploadPicture)
}

type profileRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Address string `json:"address" validate:"max=255"`
	City    string `json:"city" validate:"max=100"`
	State   string `json:"state" validate:"omitempty,len=2,alpha"`
	Country string `json:"country" validate:"max=100"`
	Phone   string `json:"phone" validate:"max=20"`
}

func (h *Handler) getProfile(c *fiber.Ctx) error {
	actor, err := auth.ActorFromCtx(c)
	if err != nil {
		return apperr.Write(c, err)
	}
	p, err := h.service.Profile(c.UserContext(), actor)
	if err != nil {
		return apperr.Write(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "profile": p})
}

func (h *Handler) updateProfile(c *fiber.Ctx) error {
	actor, err := auth.ActorFromCtx(c)
	if err != nil {
		return apperr.Write(c, err)
	}
	payload := new(profileRequest)
	if err := validation.ParseBody(c, payload); err != nil {
		return apperr.Write(c, err)
	}

	p, err := h.service.UpdateProfile(c.UserContext(), actor, ProfileUpdate{
		Name:    payload.Name,
		Address: payload.Address,
		City:    payload.City,
		State:   payload.State,
		Country: payload.Country,
		Phone:   payload.Phone,
	})
	if err != nil {
		return apperr.Write(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Profile updated successfully", "profile": p})
}

func (h *Handler) uploadPicture(c *fiber.Ctx) error {
	actor, err := auth.ActorFromCtx(c)
	if err != nil {
		return apperr.Write(c, err)
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return apperr.Write(c, apperr.Validation("No file uploaded"))
	}

	p, err := h.service.UploadPicture(c.UserContext(), actor, fh)
	if err != nil {
		return apperr.Write(c, err)
	}
	return c.JSON(fiber.Map{
		"success":        true,
		"message":        "Profile picture updated successfully",
		"profilePicture": p.ProfilePicture,
	})
}
