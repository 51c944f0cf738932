package address

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

	app.Get("/api/v1/customer/addresses", customer, h.getAddresses)
	app.Post("/api/v1/customer/addresses", customer, h.addAddress)
	app.Put("/api/v1/customer/addresses/:id", customer, h.updateAddress)
	app.Delete("/api/v1/customer/addresses/:id", customer, h.deleteAddress)
}

type addressRequest struct {
	AddressName string `json:"addressName" validate:"max=100"`
	AddressDesc string `json:"addressDesc" validate:"required,max=255"`
	Phone       string `json:"phone" validate:"max=20"`
}

func (r addressRequest) input() Input {
	return Input{AddressName: r.AddressName, AddressDesc: r.AddressDesc, Phone: r.Phone}
}

func (h *Handler) getAddresses(c *fiber.Ctx) error {
	actor, err := auth.ActorFromCtx(c)
	if err != nil {
		return apperr.Write(c, err)
	}
	addrs, err := h.service.List(c.UserContext(), actor)
	if err != nil {
		return apperr.Write(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "addresses": addrs})
}

func (h *Handler) addAddress(c *fiber.Ctx) error {
	actor, err := auth.ActorFromCtx(c)
	if err != nil {
		return apperr.Write(c, err)
	}
	payload := new(addressRequest)
	if err := validation.ParseBody(c, payload); err != nil {
		return apperr.Write(c, err)
	}
	a, err := h.service.Add(c.UserContext(), actor, payload.input())
	if err != nil {
		return apperr.Write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "address": a})
}

func (h *Handler) updateAddress(c *fiber.Ctx) error {
	actor, err := auth.ActorFromCtx(c)
	if err != nil {
		return apperr.Write(c, err)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return apperr.Write(c, apperr.Validation("Invalid address id"))
	}
	payload := new(addressRequest)
	if err := validation.ParseBody(c, payload); err != nil {
		return apperr.Write(c, err)
	}
	a, err := h.service.Update(c.UserContext(), actor, int64(id), payload.input())
	if err != nil {
		return apperr.Write(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "address": a})
}

func (h *Handler) deleteAddress(c *fiber.Ctx) error {
	actor, err := auth.ActorFromCtx(c)
	if err != nil {
		return apperr.Write(c, err)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return apperr.Write(c, apperr.Validation("Invalid address id"))
	}
	if err := h.service.Delete(c.UserContext(), actor, int64(id)); err != nil {
		return apperr.Write(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Address deleted"})
}
