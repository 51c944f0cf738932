package order

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/wichananm65/food-order-backend/internal/apperr"
	"github.com/wichananm65/food-order-backend/internal/auth"
	"github.com/wichananm65/food-order-backend/internal/validation"
)

// Handler exposes order placement and lifecycle over HTTP.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	customer := auth.RequireRole(auth.RoleCustomer)
	restaurant := auth.RequireRole(auth.RoleRestaurant)
	either := auth.RequireRole(auth.RoleCustomer, auth.RoleRestaurant)

	app.Post("/api/v1/orders", customer, h.placeOrder)
	app.Get("/api/v1/orders", either, h.listOrders)
	app.Get("/api/v1/orders/:id", either, h.getOrder)
	app.Put("/api/v1/orders/:id/status", restaurant, h.updateStatus)
	app.Post("/api/v1/orders/:id/cancel", customer, h.cancelOrder)
}

type placeOrderRequest struct {
	RestaurantID    int64              `json:"restaurantId" validate:"required,gt=0"`
	Items           []placeItemRequest `json:"items" validate:"required,min=1,dive"`
	DeliveryAddress string             `json:"deliveryAddress" validate:"max=500"`
	TotalAmount     *decimal.Decimal   `json:"totalAmount" validate:"required"`
}

type placeItemRequest struct {
	DishID   int64            `json:"dishId" validate:"required,gt=0"`
	Quantity int              `json:"quantity" validate:"gte=1,lte=2147483647"`
	Price    *decimal.Decimal `json:"price" validate:"required"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// orderView adds the statuses the caller may move the order to.
type orderView struct {
	Order
	AllowedTransitions []Status `json:"allowedTransitions"`
}

func view(role auth.Role, o Order) orderView {
	return orderView{Order: o, AllowedTransitions: NextStatuses(role, o.Status)}
}

func (h *Handler) placeOrder(c *fiber.Ctx) error {
	actor, err := auth.ActorFromCtx(c)
	if err != nil {
		return apperr.Write(c, err)
	}

	payload := new(placeOrderRequest)
	if err := validation.ParseBody(c, payload); err != nil {
		return apperr.Write(c, err)
	}

	in := PlaceOrderInput{
		RestaurantID:    payload.RestaurantID,
		DeliveryAddress: payload.DeliveryAddress,
		TotalAmount:     *payload.TotalAmount,
		Items:           make([]ItemInput, len(payload.Items)),
	}
	for i, it := range payload.Items {
		in.Items[i] = ItemInput{DishID: it.DishID, Quantity: it.Quantity, Price: *it.Price}
	}

	created, err := h.service.Place(c.UserContext(), actor, in)
	if err != nil {
		return apperr.Write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Order placed successfully",
		"orderId": created.ID,
		"order":   view(actor.Role, created),
	})
}

func (h *Handler) listOrders(c *fiber.Ctx) error {
	actor, err := auth.ActorFromCtx(c)
	if err != nil {
		return apperr.Write(c, err)
	}

	orders, err := h.service.List(c.UserContext(), actor, Status(c.Query("status")))
	if err != nil {
		return apperr.Write(c, err)
	}
	views := make([]orderView, len(orders))
	for i, o := range orders {
		views[i] = view(actor.Role, o)
	}
	return c.JSON(fiber.Map{"success": true, "orders": views})
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	actor, err := auth.ActorFromCtx(c)
	if err != nil {
		return apperr.Write(c, err)
	}
	id, err := orderID(c)
	if err != nil {
		return apperr.Write(c, err)
	}

	o, err := h.service.Get(c.UserContext(), actor, id)
	if err != nil {
		return apperr.Write(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "order": view(actor.Role, o)})
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	actor, err := auth.ActorFromCtx(c)
	if err != nil {
		return apperr.Write(c, err)
	}
	id, err := orderID(c)
	if err != nil {
		return apperr.Write(c, err)
	}

	payload := new(updateStatusRequest)
	if err := validation.ParseBody(c, payload); err != nil {
		return apperr.Write(c, err)
	}
	status, ok := ParseStatus(payload.Status)
	if !ok {
		return apperr.Write(c, apperr.Validation("Invalid status '%s'", payload.Status))
	}

	o, err := h.service.Transition(c.UserContext(), actor, id, status)
	if err != nil {
		return apperr.Write(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order status updated successfully",
		"order":   view(actor.Role, o),
	})
}

func (h *Handler) cancelOrder(c *fiber.Ctx) error {
	actor, err := auth.ActorFromCtx(c)
	if err != nil {
		return apperr.Write(c, err)
	}
	id, err := orderID(c)
	if err != nil {
		return apperr.Write(c, err)
	}

	o, err := h.service.Cancel(c.UserContext(), actor, id)
	if err != nil {
		return apperr.Write(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order cancelled successfully",
		"order":   view(actor.Role, o),
	})
}

func orderID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, apperr.Validation("Invalid order id")
	}
	return int64(id), nil
}
