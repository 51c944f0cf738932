package cart

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/food-order-backend/internal/apperr"
	"github.com/wichananm65/food-order-backend/internal/auth"
	"github.com/wichananm65/food-order-backend/internal/order"
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

	app.Get("/api/v1/cart", customer, h.getCart)
	app.Post("/api/v1/cart/items", customer, h.addItem)
	app.Delete("/api/v1/cart", customer, h.clearCart)
	app.Post("/api/v1/cart/checkout", customer, h.checkout)
}

type itemRequest struct {
	RestaurantID int64 `json:"restaurantId" validate:"required,gt=0"`
	DishID       int64 `json:"dishId" validate:"required,gt=0"`
	Quantity     int   `json:"quantity" validate:"required,min=-1000,max=1000"`
}

// checkoutRequest takes either free-text deliveryAddress or a saved addressId.
type checkoutRequest struct {
	DeliveryAddress string `json:"deliveryAddress" validate:"max=255"`
	AddressID       int64  `json:"addressId" validate:"gte=0"`
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	actor, err := auth.ActorFromCtx(c)
	if err != nil {
		return apperr.Write(c, err)
	}
	v, err := h.service.View(c.UserContext(), actor)
	if err != nil {
		return apperr.Write(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "cart": v})
}

func (h *Handler) addItem(c *fiber.Ctx) error {
	actor, err := auth.ActorFromCtx(c)
	if err != nil {
		return apperr.Write(c, err)
	}
	payload := new(itemRequest)
	if err := validation.ParseBody(c, payload); err != nil {
		return apperr.Write(c, err)
	}

	v, err := h.service.AddItem(c.UserContext(), actor, payload.RestaurantID, payload.DishID, payload.Quantity)
	if err != nil {
		return apperr.Write(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "cart": v})
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	actor, err := auth.ActorFromCtx(c)
	if err != nil {
		return apperr.Write(c, err)
	}
	if err := h.service.Clear(c.UserContext(), actor); err != nil {
		return apperr.Write(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Cart cleared"})
}

func (h *Handler) checkout(c *fiber.Ctx) error {
	actor, err := auth.ActorFromCtx(c)
	if err != nil {
		return apperr.Write(c, err)
	}
	payload := new(checkoutRequest)
	if len(c.Body()) > 0 {
		if err := validation.ParseBody(c, payload); err != nil {
			return apperr.Write(c, err)
		}
	}

	var placed order.Order
	if payload.AddressID > 0 {
		placed, err = h.service.CheckoutToAddress(c.UserContext(), actor, payload.AddressID)
	} else {
		placed, err = h.service.Checkout(c.UserContext(), actor, payload.DeliveryAddress)
	}
	if err != nil {
		return apperr.Write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Order placed successfully",
		"orderId": placed.ID,
		"order":   placed,
	})
}
