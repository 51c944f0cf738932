package customer

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wichananm65/food-order-backend/internal/auth"
	"github.com/wichananm65/food-order-backend/internal/infrastructure/blobstore"
)

type recordingBlobs struct {
	deleted []string
}

func (b *recordingBlobs) Store(ctx context.Context, folder string, f blobstore.File) (string, error) {
	return "/uploads/" + folder + "/" + f.Name, nil
}

func (b *recordingBlobs) Delete(ctx context.Context, path string) error {
	b.deleted = append(b.deleted, path)
	return nil
}

var ann = auth.Actor{UserID: 10, ProfileID: 1, Role: auth.RoleCustomer}

func makeAppWithCustomerHandler(h *Handler) *fiber.App {
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

func newApp(blobs *recordingBlobs) *fiber.App {
	repo := NewInMemoryRepository([]Profile{{ID: 1, UserID: 10, Name: "Ann", Email: "ann@example.com", ProfilePicture: "/uploads/customers/old.png"}})
	return makeAppWithCustomerHandler(NewHandler(NewService(repo, blobs)))
}

func send(t *testing.T, app *fiber.App, method, path string, body io.Reader, contentType string, a auth.Actor) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if a.UserID != 0 {
		req.Header.Set("X-User-ID", strconv.FormatInt(a.UserID, 10))
		req.Header.Set("X-Role", string(a.Role))
	}
	res, err := app.Test(req)
	require.NoError(t, err)

	out := map[string]any{}
	b, _ := io.ReadAll(res.Body)
	require.NoError(t, json.Unmarshal(b, &out), string(b))
	return res.StatusCode, out
}

func TestProfileRoutes(t *testing.T) {
	app := newApp(&recordingBlobs{})

	code, _ := send(t, app, "GET", "/api/v1/customer/profile", nil, "", auth.Actor{})
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, body := send(t, app, "GET", "/api/v1/customer/profile", nil, "", ann)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "ann@example.com", body["profile"].(map[string]any)["email"])

	code, body = send(t, app, "PUT", "/api/v1/customer/profile",
		strings.NewReader(`{"name":"Ann Lee","address":"12 Market St","city":"San Jose","state":"CA","country":"USA","phone":"555-0100"}`),
		"application/json", ann)
	require.Equal(t, fiber.StatusOK, code, body)
	p := body["profile"].(map[string]any)
	assert.Equal(t, "Ann Lee", p["name"])
	assert.Equal(t, "CA", p["state"])

	code, _ = send(t, app, "PUT", "/api/v1/customer/profile", strings.NewReader(`{"name":"Ann","state":"California"}`), "application/json", ann)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = send(t, app, "GET", "/api/v1/customer/profile", nil, "", auth.Actor{UserID: 20, Role: auth.RoleRestaurant})
	assert.Equal(t, fiber.StatusForbidden, code)
}

func TestUploadPicture(t *testing.T) {
	blobs := &recordingBlobs{}
	app := newApp(blobs)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="me.png"`)
	h.Set("Content-Type", "image/png")
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, _ = part.Write([]byte("png"))
	require.NoError(t, w.Close())

	code, body := send(t, app, "POST", "/api/v1/customer/profile/picture", &buf, w.FormDataContentType(), ann)
	require.Equal(t, fiber.StatusOK, code, body)
	assert.Equal(t, "/uploads/customers/me.png", body["profilePicture"])
	assert.Equal(t, []string{"/uploads/customers/old.png"}, blobs.deleted)

	code, _ = send(t, app, "POST", "/api/v1/customer/profile/picture", nil, "", ann)
	assert.Equal(t, fiber.StatusBadRequest, code)
}
