// Package blobstore stores uploaded images and returns the path clients use
// to fetch them.
package blobstore

import (
	"context"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wichananm65/food-order-backend/internal/apperr"
)

const MaxImageSize = 5 << 20

// File is an upload ready to be stored.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Store persists files under a folder and deletes them by returned path.
type Store interface {
	Store(ctx context.Context, folder string, f File) (string, error)
	Delete(ctx context.Context, path string) error
}

// SaveImage validates an uploaded image and stores it.
func SaveImage(ctx context.Context, s Store, folder string, fh *multipart.FileHeader) (string, error) {
	ct := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		return "", apperr.Validation("Only image files are allowed")
	}
	if fh.Size > MaxImageSize {
		return "", apperr.Validation("Image must be 5MB or smaller")
	}

	src, err := fh.Open()
	if err != nil {
		return "", apperr.Validation("Could not read uploaded file")
	}
	defer src.Close()

	return s.Store(ctx, folder, File{
		Name:        fh.Filename,
		ContentType: ct,
		Size:        fh.Size,
		Body:        src,
	})
}

// objectName builds a collision-free name that keeps the original extension.
func objectName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return time.Now().UTC().Format("20060102150405") + "-" + uuid.NewString() + ext
}
