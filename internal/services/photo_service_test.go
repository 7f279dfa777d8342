package services

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/jpeg"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condoguard/frontdesk/internal/observability"
)

func decodePrepared(t *testing.T, dataURL string) image.Image {
	t.Helper()
	payload, ok := strings.CutPrefix(dataURL, "data:image/jpeg;base64,")
	require.True(t, ok, "prepared photo is a JPEG data URL")
	raw, err := base64.StdEncoding.DecodeString(payload)
	require.NoError(t, err)
	img, err := jpeg.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	return img
}

func TestPhotoPrepare(t *testing.T) {
	svc := NewPhotoService(100, 80, observability.NewNopLogger())

	t.Run("downscales keeping the aspect ratio", func(t *testing.T) {
		out := svc.Prepare(pngDataURL(t, 400, 200))
		img := decodePrepared(t, out)
		assert.Equal(t, 100, img.Bounds().Dx())
		assert.Equal(t, 50, img.Bounds().Dy())
	})

	t.Run("small photos keep their size", func(t *testing.T) {
		img := decodePrepared(t, svc.Prepare(pngDataURL(t, 40, 30)))
		assert.Equal(t, 40, img.Bounds().Dx())
		assert.Equal(t, 30, img.Bounds().Dy())
	})

	t.Run("undecodable payloads are kept", func(t *testing.T) {
		for _, in := range []string{
			"",
			"data:image/png;base64,not-base64!!",
			"data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("not an image")),
			"https://example.com/photo.jpg",
		} {
			assert.Equal(t, in, svc.Prepare(in))
		}
	})
}

func TestApplyOrientation(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))

	for orientation, want := range map[int]image.Point{
		1: {40, 20},
		3: {40, 20},
		6: {20, 40},
		8: {20, 40},
		5: {20, 40},
	} {
		got := applyOrientation(img, orientation).Bounds().Size()
		assert.Equal(t, want, got, "orientation %d", orientation)
	}
	assert.Equal(t, 1, readOrientation([]byte("no exif here")))
}
