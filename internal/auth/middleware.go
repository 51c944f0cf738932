package auth

import (
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/wichananm65/food-order-backend/internal/apperr"
)

const localsKey = "user"

// Middleware validates the bearer token and stores it in c.Locals("user").
func (s *Service) Middleware() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:    s.secret,
		SigningMethod: "HS256",
		ContextKey:    localsKey,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if c.Get(fiber.HeaderAuthorization) == "" {
				return apperr.Write(c, apperr.Unauthenticated("No token provided"))
			}
			return apperr.Write(c, apperr.Unauthenticated("Invalid or expired token"))
		},
	})
}

// ActorFromCtx returns the caller stored by Middleware.
func ActorFromCtx(c *fiber.Ctx) (Actor, error) {
	tok, ok := c.Locals(localsKey).(*jwt.Token)
	if !ok || tok == nil {
		return Actor{}, apperr.Unauthenticated("Authentication required")
	}
	a, err := actorFromToken(tok)
	if err != nil {
		return Actor{}, apperr.Unauthenticated("Invalid or expired token")
	}
	return a, nil
}

// RequireRole rejects callers whose role is not listed.
func RequireRole(roles ...Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := ActorFromCtx(c)
		if err != nil {
			return apperr.Write(c, err)
		}
		for _, r := range roles {
			if a.Role == r {
				return c.Next()
			}
		}
		if len(roles) == 1 {
			return apperr.Write(c, apperr.AccessDenied("Access denied. %s role required.", roles[0].Title()))
		}
		return apperr.Write(c, apperr.AccessDenied("Access denied"))
	}
}
