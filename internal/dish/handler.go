package dish

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

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
	restaurant := auth.RequireRole(auth.RoleRestaurant)

	app.Get("/api/v1/restaurant/menu", restaurant, h.getMenu)
	app.Post("/api/v1/restaurant/dishes", restaurant, h.addDish)
	app.Put("/api/v1/restaurant/dishes/:id", restaurant, h.updateDish)
	app.Delete("/api/v1/restaurant/dishes/:id", restaurant, h.deleteDish)
}

// dishRequest is sent as multipart/form-data alongside an optional
// "image" file. Price is a decimal string such as "12.50".
type dishRequest struct {
	Name        string `json:"name" form:"name" validate:"required,max=100"`
	Description string `json:"description" form:"description" validate:"max=1000"`
	Price       string `json:"price" form:"price" validate:"required,numeric"`
	Ingredients string `json:"ingredients" form:"ingredients" validate:"max=1000"`
	Category    string `json:"category" form:"category" validate:"required,max=50"`
}

func (r dishRequest) input() (Input, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return Input{}, apperr.Validation("price must be a number")
	}
	return Input{
		Name:        r.Name,
		Description: r.Description,
		Price:       price,
		Ingredients: r.Ingredients,
		Category:    r.Category,
	}, nil
}

func (h *Handler) getMenu(c *fiber.Ctx) error {
	actor, err := auth.ActorFromCtx(c)
	if err != nil {
		return apperr.Write(c, err)
	}
	menu, err := h.service.Menu(c.UserContext(), actor)
	if err != nil {
		return apperr.Write(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "menu": menu})
}

func (h *Handler) addDish(c *fiber.Ctx) error {
	actor, err := auth.ActorFromCtx(c)
	if err != nil {
		return apperr.Write(c, err)
	}
	in, err := parseDish(c)
	if err != nil {
		return apperr.Write(c, err)
	}

	d, err := h.service.Add(c.UserContext(), actor, in, optionalImage(c))
	if err != nil {
		return apperr.Write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Dish added successfully",
		"dish":    d,
	})
}

func (h *Handler) updateDish(c *fiber.Ctx) error {
	actor, err := auth.ActorFromCtx(c)
	if err != nil {
		return apperr.Write(c, err)
	}
	id, err := dishID(c)
	if err != nil {
		return apperr.Write(c, err)
	}
	in, err := parseDish(c)
	if err != nil {
		return apperr.Write(c, err)
	}

	d, err := h.service.Update(c.UserContext(), actor, id, in, optionalImage(c))
	if err != nil {
		return apperr.Write(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Dish updated successfully",
		"dish":    d,
	})
}

func (h *Handler) deleteDish(c *fiber.Ctx) error {
	actor, err := auth.ActorFromCtx(c)
	if err != nil {
		return apperr.Write(c, err)
	}
	id, err := dishID(c)
	if err != nil {
		return apperr.Write(c, err)
	}
	if err := h.service.Delete(c.UserContext(), actor, id); err != nil {
		return apperr.Write(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Dish deleted successfully"})
}

func parseDish(c *fiber.Ctx) (Input, error) {
	payload := new(dishRequest)
	if err := validation.ParseBody(c, payload); err != nil {
		return Input{}, err
	}
	return payload.input()
}

func optionalImage(c *fiber.Ctx) *multipart.FileHeader {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil
	}
	return fh
}

func dishID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, apperr.Validation("Invalid dish id")
	}
	return int64(id), nil
}
