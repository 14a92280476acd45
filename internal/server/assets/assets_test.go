package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"regexp"
	"testing"
	"time"

	"github.com/dmitrijs2005/piiquante/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 3, 2)), nil))
	return buf.Bytes()
}

func TestInspect_AcceptsImages(t *testing.T) {
	img, err := Inspect(pngBytes(t, 4, 3))
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, 4, img.Width)
	assert.Equal(t, 3, img.Height)

	img, err = Inspect(jpegBytes(t))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.ContentType)
	assert.Equal(t, 3, img.Width)
	assert.Equal(t, 2, img.Height)
}

func TestInspect_Rejects(t *testing.T) {
	truncatedWebP := append([]byte("RIFF\x10\x00\x00\x00WEBPVP8 "), make([]byte, 4)...)

	tests := []struct {
		name string
		data []byte
		msg  string
	}{
		{name: "empty", data: nil, msg: "is required"},
		{name: "text", data: []byte("hello, not an image"), msg: "must be a jpg, png or webp image"},
		{name: "gif", data: []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;"), msg: "must be a jpg, png or webp image"},
		{name: "broken png", data: []byte("\x89PNG\r\n\x1a\n garbage"), msg: "is not a readable image"},
		{name: "broken webp", data: truncatedWebP, msg: "is not a readable image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Inspect(tt.data)
			require.ErrorIs(t, err, common.ErrorValidation)

			var ve *common.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.msg, ve.Fields["image"])
		})
	}
}

func TestNewKey_Layout(t *testing.T) {
	key := newKey(time.Date(2024, 7, 9, 0, 0, 0, 0, time.UTC), "webp")
	assert.Regexp(t, regexp.MustCompile(`^sauces/2024/7/9/[0-9a-f-]{36}\.webp$`), key)
}

func TestExtFor_Unsupported(t *testing.T) {
	_, err := extFor("image/gif")
	require.ErrorIs(t, err, common.ErrorValidation)
}
