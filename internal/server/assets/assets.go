// Package assets stores sauce images and resolves their public URLs.
// A record only keeps the opaque reference returned by Store.
package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"time"

	"github.com/dmitrijs2005/piiquante/internal/common"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

// Store persists image bytes under an opaque reference.
type Store interface {
	Store(ctx context.Context, data []byte, contentType string) (string, error)
	// Release deletes the asset. Releasing a missing asset is not an error.
	Release(ctx context.Context, ref string) error
	URL(ctx context.Context, ref string) (string, error)
}

// Image is an upload that passed Inspect.
type Image struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// Inspect sniffs the content type of data and decodes the image header.
// Anything other than a readable jpeg, png or webp is a validation error.
func Inspect(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, common.NewValidationError("image", "is required")
	}

	ct := http.DetectContentType(data)
	if _, ok := extensions[ct]; !ok {
		return nil, common.NewValidationError("image", "must be a jpg, png or webp image")
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, common.NewValidationError("image", "is not a readable image")
	}

	return &Image{Data: data, ContentType: ct, Width: cfg.Width, Height: cfg.Height}, nil
}

func extFor(contentType string) (string, error) {
	ext, ok := extensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: unsupported content type %q", common.ErrorValidation, contentType)
	}
	return ext, nil
}

// newKey returns sauces/<year>/<month>/<day>/<uuid>.<ext>.
func newKey(now time.Time, ext string) string {
	return fmt.Sprintf("sauces/%d/%d/%d/%s.%s", now.Year(), now.Month(), now.Day(), uuid.New(), ext)
}
