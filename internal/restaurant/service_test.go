package restaurant

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wichananm65/food-order-backend/internal/apperr"
	"github.com/wichananm65/food-order-backend/internal/auth"
	"github.com/wichananm65/food-order-backend/internal/dish"
	"github.com/wichananm65/food-order-backend/internal/infrastructure/blobstore"
)

type favoriteSet map[int64]map[int64]bool

func (f favoriteSet) FavoriteIDs(ctx context.Context, customerID int64) (map[int64]bool, error) {
	out := map[int64]bool{}
	for id := range f[customerID] {
		out[id] = true
	}
	return out, nil
}

type menuMap map[int64][]dish.Dish

func (m menuMap) MenuOf(ctx context.Context, restaurantID int64) ([]dish.Dish, error) {
	return m[restaurantID], nil
}

type recordingBlobs struct {
	stored  []string
	deleted []string
}

func (b *recordingBlobs) Store(ctx context.Context, folder string, f blobstore.File) (string, error) {
	p := "/uploads/" + folder + "/" + f.Name
	b.stored = append(b.stored, p)
	return p, nil
}

func (b *recordingBlobs) Delete(ctx context.Context, path string) error {
	b.deleted = append(b.deleted, path)
	return nil
}

var (
	hungry = auth.Actor{UserID: 10, ProfileID: 1, Role: auth.RoleCustomer}
	noodle = auth.Actor{UserID: 20, ProfileID: 5, Role: auth.RoleRestaurant}
)

func seedProfiles() []Profile {
	return []Profile{
		{ID: 5, UserID: 20, Name: "Noodle Bar", Email: "noodle@example.com", Location: "Main St", DeliveryType: DeliveryOnly},
		{ID: 6, UserID: 21, Name: "Taco Stand", Location: "2nd Ave", DeliveryType: PickupOnly},
		{ID: 7, UserID: 22, Name: "Diner", Location: "3rd Ave", DeliveryType: DeliveryBoth},
	}
}

func newTestService(blobs blobstore.Store) *Service {
	menus := menuMap{5: {{ID: 100, RestaurantID: 5, Name: "Pad Thai", Price: decimal.RequireFromString("5.00")}}}
	return NewService(NewInMemoryRepository(seedProfiles()), blobs, favoriteSet{10: {6: true}}, menus)
}

func namedImage(t *testing.T, name string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+name+`"`)
	h.Set("Content-Type", "image/jpeg")
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, _ = part.Write([]byte("jpg"))
	require.NoError(t, w.Close())
	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File["image"][0]
}

func TestListFiltersByDeliveryTypeAndFlagsFavorites(t *testing.T) {
	svc := newTestService(&recordingBlobs{})
	ctx := context.Background()

	all, err := svc.List(ctx, hungry, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.False(t, all[0].IsFavorite)
	assert.True(t, all[1].IsFavorite)

	pickup, err := svc.List(ctx, hungry, ListFilter{DeliveryType: PickupOnly})
	require.NoError(t, err)
	require.Len(t, pickup, 2)
	assert.Equal(t, int64(6), pickup[0].ID)
	assert.Equal(t, int64(7), pickup[1].ID)

	_, err = svc.List(ctx, hungry, ListFilter{DeliveryType: "Drone"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	page, err := svc.List(ctx, hungry, ListFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, int64(6), page[0].ID)
}

func TestDetailIncludesMenu(t *testing.T) {
	svc := newTestService(&recordingBlobs{})

	d, err := svc.Detail(context.Background(), hungry, 5)
	require.NoError(t, err)
	assert.Equal(t, "Noodle Bar", d.Name)
	assert.Empty(t, d.Email)
	assert.False(t, d.IsFavorite)
	assert.Len(t, d.Menu, 1)

	_, err = svc.Detail(context.Background(), hungry, 404)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUpdateProfile(t *testing.T) {
	svc := newTestService(&recordingBlobs{})
	ctx := context.Background()

	p, err := svc.UpdateProfile(ctx, noodle, ProfileUpdate{Name: "Noodle House", Location: "Main St", DeliveryType: PickupOnly, OpeningTime: "09:00"})
	require.NoError(t, err)
	assert.Equal(t, "Noodle House", p.Name)
	assert.Equal(t, PickupOnly, p.DeliveryType)

	_, err = svc.UpdateProfile(ctx, noodle, ProfileUpdate{Name: "x", Location: "y", DeliveryType: "Teleport"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.UpdateProfile(ctx, auth.Actor{UserID: 99, Role: auth.RoleRestaurant}, ProfileUpdate{Name: "x", Location: "y"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUploadPictureReplacesPrevious(t *testing.T) {
	blobs := &recordingBlobs{}
	svc := newTestService(blobs)
	ctx := context.Background()

	p, err := svc.UploadPicture(ctx, noodle, namedImage(t, "first.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/restaurants/first.jpg", p.ProfilePicture)
	assert.Empty(t, blobs.deleted)

	_, err = svc.UploadPicture(ctx, noodle, namedImage(t, "second.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/restaurants/first.jpg"}, blobs.deleted)
}

func TestRestaurantExists(t *testing.T) {
	svc := newTestService(&recordingBlobs{})
	ok, err := svc.RestaurantExists(context.Background(), 6)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.RestaurantExists(context.Background(), 60)
	require.NoError(t, err)
	assert.False(t, ok)
}
