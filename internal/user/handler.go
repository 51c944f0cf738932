package user

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/food-order-backend/internal/apperr"
	"github.com/wichananm65/food-order-backend/internal/auth"
	"github.com/wichananm65/food-order-backend/internal/validation"
)

type Handler struct {
	service *Service
	limiter fiber.Handler
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	UserType string `json:"userType" validate:"required,oneof=customer restaurant"`
	Location string `json:"location" validate:"max=255"`
}

// NewHandler wires the auth routes. limiter guards register and login and
// may be nil.
func NewHandler(service *Service, limiter fiber.Handler) *Handler {
	if limiter == nil {
		limiter = func(c *fiber.Ctx) error { return c.Next() }
	}
	return &Handler{service: service, limiter: limiter}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/auth/register", h.limiter, h.register)
	app.Post("/api/v1/auth/login", h.limiter, h.login)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/auth/me", h.me)
	app.Post("/api/v1/auth/logout", h.logout)
}

func (h *Handler) register(c *fiber.Ctx) error {
	payload := new(registerRequest)
	if err := validation.ParseBody(c, payload); err != nil {
		return apperr.Write(c, err)
	}
	role, _ := auth.ParseRole(payload.UserType)

	sess, err := h.service.Register(c.UserContext(), Registration{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
		UserType: role,
		Location: payload.Location,
	})
	if err != nil {
		return apperr.Write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User registered successfully",
		"token":   sess.Token,
		"user":    sess.User,
	})
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := validation.ParseBody(c, payload); err != nil {
		return apperr.Write(c, err)
	}

	sess, err := h.service.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return apperr.Write(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"token":   sess.Token,
		"user":    sess.User,
	})
}

func (h *Handler) me(c *fiber.Ctx) error {
	actor, err := auth.ActorFromCtx(c)
	if err != nil {
		return apperr.Write(c, err)
	}
	acct, err := h.service.Me(c.UserContext(), actor)
	if err != nil {
		return apperr.Write(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "user": acct})
}

// logout is a no-op on the server; tokens are stateless and the client
// discards its copy.
func (h *Handler) logout(c *fiber.Ctx) error {
	if _, err := auth.ActorFromCtx(c); err != nil {
		return apperr.Write(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Logged out successfully"})
}
