package restaurant

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/food-order-backend/internal/apperr"
	"github.com/wichananm65/food-order-backend/internal/auth"
	"github.com/wichananm65/food-order-backend/internal/validation"
)

const defaultPageSize = 50

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	customer := auth.RequireRole(auth.RoleCustomer)
	restaurant := auth.RequireRole(auth.RoleRestaurant)

	app.Get("/api/v1/restaurants", customer, h.listRestaurants)
	app.Get("/api/v1/restaurants/:id", customer, h.getRestaurant)

	app.Get("/api/v1/restaurant/profile", restaurant, h.getProfile)
	app.Put("/api/v1/restaurant/profile", restaurant, h.updateProfile)
	app.Post("/api/v1/restaurant/profile/picture", restaurant, h.uploadPicture)
}

type profileRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	Description  string `json:"description" validate:"max=2000"`
	Location     string `json:"location" validate:"required,max=255"`
	DeliveryType string `json:"deliveryType" validate:"omitempty,oneof=Delivery Pickup Both"`
	ContactInfo  string `json:"contactInfo" validate:"max=100"`
	OpeningTime  string `json:"openingTime" validate:"omitempty,datetime=15:04"`
	ClosingTime  string `json:"closingTime" validate:"omitempty,datetime=15:04"`
}

func (h *Handler) listRestaurants(c *fiber.Ctx) error {
	actor, err := auth.ActorFromCtx(c)
	if err != nil {
		return apperr.Write(c, err)
	}

	// ?deliveryType=Delivery&limit=20&offset=0
	f := ListFilter{
		DeliveryType: c.Query("deliveryType"),
		Limit:        c.QueryInt("limit", defaultPageSize),
		Offset:       c.QueryInt("offset", 0),
	}
	if f.Limit <= 0 {
		f.Limit = defaultPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	list, err := h.service.List(c.UserContext(), actor, f)
	if err != nil {
		return apperr.Write(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "restaurants": list})
}

func (h *Handler) getRestaurant(c *fiber.Ctx) error {
	actor, err := auth.ActorFromCtx(c)
	if err != nil {
		return apperr.Write(c, err)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return apperr.Write(c, apperr.Validation("Invalid restaurant id"))
	}

	d, err := h.service.Detail(c.UserContext(), actor, int64(id))
	if err != nil {
		return apperr.Write(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "restaurant": d})
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
		Name:         payload.Name,
		Description:  payload.Description,
		Location:     payload.Location,
		DeliveryType: payload.DeliveryType,
		ContactInfo:  payload.ContactInfo,
		OpeningTime:  payload.OpeningTime,
		ClosingTime:  payload.ClosingTime,
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
		return apperr.Write(c, apperr.Validation("No image file uploaded"))
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
