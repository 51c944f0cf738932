package dish

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/textproto"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wichananm65/food-order-backend/internal/apperr"
	"github.com/wichananm65/food-order-backend/internal/auth"
	"github.com/wichananm65/food-order-backend/internal/infrastructure/blobstore"
)

type memBlobs struct {
	mu      sync.Mutex
	n       int
	stored  map[string]bool
	deleted []string
}

func newMemBlobs() *memBlobs { return &memBlobs{stored: map[string]bool{}} }

func (m *memBlobs) Store(ctx context.Context, folder string, f blobstore.File) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n++
	p := "/uploads/" + folder + "/" + string(rune('a'+m.n-1)) + ".png"
	m.stored[p] = true
	return p, nil
}

func (m *memBlobs) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stored, path)
	m.deleted = append(m.deleted, path)
	return nil
}

var (
	owner    = auth.Actor{UserID: 20, ProfileID: 5, Role: auth.RoleRestaurant}
	stranger = auth.Actor{UserID: 21, ProfileID: 6, Role: auth.RoleRestaurant}
	diner    = auth.Actor{UserID: 10, ProfileID: 1, Role: auth.RoleCustomer}
)

func padThai() Input {
	return Input{Name: "Pad Thai", Price: decimal.RequireFromString("5.00"), Category: "Thai"}
}

// imageHeader builds a multipart file header the way fiber hands one over.
func imageHeader(t *testing.T, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="dish.png"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File["image"][0]
}

func TestAddAndMenu(t *testing.T) {
	blobs := newMemBlobs()
	svc := NewService(NewInMemoryRepository(nil), blobs)
	ctx := context.Background()

	d, err := svc.Add(ctx, owner, padThai(), imageHeader(t, "image/png", []byte("png")))
	require.NoError(t, err)
	assert.Equal(t, int64(5), d.RestaurantID)
	assert.Equal(t, "/uploads/dishes/a.png", d.Image)

	_, err = svc.Add(ctx, owner, Input{Name: "Spring Rolls", Price: decimal.RequireFromString("3.50"), Category: "Thai"}, nil)
	require.NoError(t, err)

	menu, err := svc.Menu(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, menu, 2)

	other, err := svc.MenuOf(ctx, 6)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestAddRejectsBadInput(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil), newMemBlobs())
	ctx := context.Background()

	in := padThai()
	in.Price = decimal.RequireFromString("-1")
	_, err := svc.Add(ctx, owner, in, nil)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Add(ctx, owner, padThai(), imageHeader(t, "text/plain", []byte("hi")))
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Add(ctx, diner, padThai(), nil)
	assert.True(t, apperr.Is(err, apperr.KindAccessDenied))
}

func TestUpdateReplacesImage(t *testing.T) {
	blobs := newMemBlobs()
	svc := NewService(NewInMemoryRepository(nil), blobs)
	ctx := context.Background()

	d, err := svc.Add(ctx, owner, padThai(), imageHeader(t, "image/png", []byte("1")))
	require.NoError(t, err)

	in := padThai()
	in.Price = decimal.RequireFromString("6.25")
	updated, err := svc.Update(ctx, owner, d.ID, in, imageHeader(t, "image/jpeg", []byte("2")))
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("6.25")))
	assert.Equal(t, "/uploads/dishes/b.png", updated.Image)
	assert.Equal(t, []string{"/uploads/dishes/a.png"}, blobs.deleted)

	kept, err := svc.Update(ctx, owner, d.ID, padThai(), nil)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/dishes/b.png", kept.Image)
}

func TestOwnershipChecks(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil), newMemBlobs())
	ctx := context.Background()

	d, err := svc.Add(ctx, owner, padThai(), nil)
	require.NoError(t, err)

	_, err = svc.Update(ctx, stranger, d.ID, padThai(), nil)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.True(t, apperr.Is(svc.Delete(ctx, stranger, d.ID), apperr.KindNotFound))
	assert.True(t, apperr.Is(svc.Delete(ctx, owner, 999), apperr.KindNotFound))
}

func TestDeleteKeepsOrderedDishes(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	blobs := newMemBlobs()
	svc := NewService(repo, blobs)
	ctx := context.Background()

	d, err := svc.Add(ctx, owner, padThai(), imageHeader(t, "image/png", []byte("1")))
	require.NoError(t, err)
	repo.MarkOrdered(d.ID)

	err = svc.Delete(ctx, owner, d.ID)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Empty(t, blobs.deleted)

	fresh, err := svc.Add(ctx, owner, padThai(), imageHeader(t, "image/png", []byte("2")))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, owner, fresh.ID))
	assert.Equal(t, []string{fresh.Image}, blobs.deleted)
}

func TestDishPricesOnlyForRestaurant(t *testing.T) {
	repo := NewInMemoryRepository([]Dish{
		{ID: 100, RestaurantID: 5, Name: "Pad Thai", Price: decimal.RequireFromString("5.00")},
		{ID: 101, RestaurantID: 5, Name: "Spring Rolls", Price: decimal.RequireFromString("3.50")},
		{ID: 200, RestaurantID: 6, Name: "Burger", Price: decimal.RequireFromString("9.00")},
	})
	svc := NewService(repo, newMemBlobs())

	prices, err := svc.DishPrices(context.Background(), 5, []int64{100, 101, 200, 404})
	require.NoError(t, err)
	assert.Len(t, prices, 2)
	assert.True(t, prices[101].Equal(decimal.RequireFromString("3.50")))
}
