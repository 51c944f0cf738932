package blobstore

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wichananm65/food-order-backend/internal/apperr"
)

func fileHeader(t *testing.T, name, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+name+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["image"][0]
}

func TestLocalStoreRoundTrip(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root, "/uploads/")
	ctx := context.Background()

	p, err := SaveImage(ctx, store, "dishes", fileHeader(t, "Pad Thai.PNG", "image/png", []byte("png-bytes")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, "/uploads/dishes/"), p)
	assert.True(t, strings.HasSuffix(p, ".png"), p)

	onDisk := filepath.Join(root, strings.TrimPrefix(p, "/uploads"))
	b, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(b))

	require.NoError(t, store.Delete(ctx, p))
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))

	// deleting twice or outside the store is a no-op
	assert.NoError(t, store.Delete(ctx, p))
	assert.NoError(t, store.Delete(ctx, "https://elsewhere/x.png"))
}

func TestLocalStoreKeepsFolderInsideRoot(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root, "/uploads")

	p, err := store.Store(context.Background(), "../../etc", File{Name: "a.jpg", Body: strings.NewReader("x")})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, "/uploads/etc/"), p)
}

func TestSaveImageRejectsNonImages(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "/uploads")

	_, err := SaveImage(context.Background(), store, "profiles", fileHeader(t, "notes.txt", "text/plain", []byte("hi")))
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	big := fileHeader(t, "huge.jpg", "image/jpeg", []byte("x"))
	big.Size = MaxImageSize + 1
	_, err = SaveImage(context.Background(), store, "profiles", big)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

type fakeS3 struct {
	puts    map[string][]byte
	deleted []string
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, _ := io.ReadAll(in.Body)
	f.puts[*in.Key] = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	fake := &fakeS3{puts: map[string][]byte{}}
	store := newS3Store(fake, "food-uploads", "http://localhost:9000/food-uploads/")
	ctx := context.Background()

	p, err := store.Store(ctx, "/profiles/", File{Name: "me.jpg", ContentType: "image/jpeg", Size: 3, Body: strings.NewReader("jpg")})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(p, "http://localhost:9000/food-uploads/profiles/"), p)

	key := strings.TrimPrefix(p, "http://localhost:9000/food-uploads/")
	assert.Equal(t, []byte("jpg"), fake.puts[key])

	require.NoError(t, store.Delete(ctx, p))
	require.NoError(t, store.Delete(ctx, "/uploads/local.png"))
	assert.Equal(t, []string{key}, fake.deleted)
}
