package favorite

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wichananm65/food-order-backend/internal/auth"
	"github.com/wichananm65/food-order-backend/internal/restaurant"
)

func makeAppWithFavoriteHandler(h *Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			id, _ := strconv.ParseInt(v, 10, 64)
			role, _ := auth.ParseRole(c.Get("X-Role"))
			c.Locals("user", &jwt.Token{Claims: auth.Claims(auth.Actor{UserID: id, Role: role})})
		}
		return c.Next()
	})
	h.RegisterProtectedRoutes(app)
	return app
}

func request(t *testing.T, app *fiber.App, method, path, body, role string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "10")
	req.Header.Set("X-Role", role)
	res, err := app.Test(req)
	require.NoError(t, err)

	out := map[string]any{}
	b, _ := io.ReadAll(res.Body)
	require.NoError(t, json.Unmarshal(b, &out), string(b))
	return res.StatusCode, out
}

func newFavoriteApp() *fiber.App {
	restaurants := restaurant.NewInMemoryRepository([]restaurant.Profile{
		{ID: 5, UserID: 20, Name: "Noodle Bar", Location: "Main St"},
		{ID: 6, UserID: 21, Name: "Taco Stand", Location: "2nd Ave"},
	})
	repo := NewInMemoryRepository([]restaurant.Summary{
		{ID: 5, Name: "Noodle Bar", Location: "Main St"},
		{ID: 6, Name: "Taco Stand", Location: "2nd Ave"},
	})
	return makeAppWithFavoriteHandler(NewHandler(NewService(repo, restaurants)))
}

func TestFavoriteLifecycle(t *testing.T) {
	app := newFavoriteApp()
	customer := string(auth.RoleCustomer)

	code, _ := request(t, app, "POST", "/api/v1/favorites", `{"restaurantId":5}`, customer)
	assert.Equal(t, fiber.StatusCreated, code)

	code, body := request(t, app, "POST", "/api/v1/favorites", `{"restaurantId":5}`, customer)
	assert.Equal(t, fiber.StatusConflict, code)
	assert.Equal(t, "Restaurant is already in favorites", body["message"])

	code, _ = request(t, app, "POST", "/api/v1/favorites", `{"restaurantId":99}`, customer)
	assert.Equal(t, fiber.StatusNotFound, code)

	code, _ = request(t, app, "POST", "/api/v1/favorites", `{}`, customer)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, body = request(t, app, "GET", "/api/v1/favorites", "", customer)
	require.Equal(t, fiber.StatusOK, code)
	favs := body["favorites"].([]any)
	require.Len(t, favs, 1)
	assert.Equal(t, true, favs[0].(map[string]any)["isFavorite"])

	code, _ = request(t, app, "DELETE", "/api/v1/favorites/5", "", customer)
	assert.Equal(t, fiber.StatusOK, code)
	code, _ = request(t, app, "DELETE", "/api/v1/favorites/5", "", customer)
	assert.Equal(t, fiber.StatusOK, code)

	_, body = request(t, app, "GET", "/api/v1/favorites", "", customer)
	assert.Empty(t, body["favorites"])
}

func TestFavoritesAreCustomerOnly(t *testing.T) {
	app := newFavoriteApp()
	code, _ := request(t, app, "GET", "/api/v1/favorites", "", string(auth.RoleRestaurant))
	assert.Equal(t, fiber.StatusForbidden, code)
}
