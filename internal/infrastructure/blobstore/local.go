package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStore writes files below Root and serves them from URLPrefix.
type LocalStore struct {
	Root      string
	URLPrefix string
}

func NewLocalStore(root, urlPrefix string) *LocalStore {
	return &LocalStore{Root: root, URLPrefix: strings.TrimRight(urlPrefix, "/")}
}

func (s *LocalStore) Store(ctx context.Context, folder string, f File) (string, error) {
	dir := filepath.Join(s.Root, filepath.Clean("/"+folder))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := objectName(f.Name)
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, f.Body); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return path.Join(s.URLPrefix, path.Clean("/"+folder), name), nil
}

// Delete removes a file previously returned by Store. Paths outside the
// store and files that are already gone are ignored.
func (s *LocalStore) Delete(ctx context.Context, p string) error {
	if p == "" || !strings.HasPrefix(p, s.URLPrefix+"/") {
		return nil
	}
	rel := path.Clean(strings.TrimPrefix(p, s.URLPrefix))
	err := os.Remove(filepath.Join(s.Root, filepath.FromSlash(rel)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete upload file: %w", err)
	}
	return nil
}
