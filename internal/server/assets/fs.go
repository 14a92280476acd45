package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/piiquante/internal/filex"
	"github.com/google/uuid"
)

// ImagesRoute is where the HTTP server exposes FSStore files.
const ImagesRoute = "/images"

// FSStore keeps images as flat files in one directory.
type FSStore struct {
	dir     string
	baseURL string
}

// NewFSStore creates dir if needed. baseURL is the public server origin,
// e.g. "http://localhost:3000".
func NewFSStore(dir, baseURL string) (*FSStore, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &FSStore{dir: abs, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir is the absolute directory served at ImagesRoute.
func (s *FSStore) Dir() string {
	return s.dir
}

func (s *FSStore) Store(ctx context.Context, data []byte, contentType string) (string, error) {
	ext, err := extFor(contentType)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ref := uuid.NewString() + "." + ext
	f, err := os.OpenFile(filepath.Join(s.dir, ref), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", fmt.Errorf("create asset: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write asset: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("close asset: %w", err)
	}
	return ref, nil
}

func (s *FSStore) Release(ctx context.Context, ref string) error {
	path, err := s.path(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove asset: %w", err)
	}
	return nil
}

func (s *FSStore) URL(ctx context.Context, ref string) (string, error) {
	if _, err := s.path(ref); err != nil {
		return "", err
	}
	return s.baseURL + ImagesRoute + "/" + url.PathEscape(ref), nil
}

// path rejects references that would escape the images directory.
func (s *FSStore) path(ref string) (string, error) {
	if ref == "" || ref != filepath.Base(ref) || ref == "." || ref == ".." {
		return "", fmt.Errorf("invalid asset reference %q", ref)
	}
	return filepath.Join(s.dir, ref), nil
}
