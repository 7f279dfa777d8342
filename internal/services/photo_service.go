package services

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/jdeng/goheif"
	"github.com/rwcarlsen/goexif/exif"

	"github.com/condoguard/frontdesk/internal/observability"
)

const (
	DefaultPhotoMaxDim  = 1024
	DefaultPhotoQuality = 80
)

var errNotDataURL = errors.New("not a base64 data URL")

// PhotoService shrinks visitor photos captured by the kiosk camera before
// they are uploaded or queued
type PhotoService struct {
	maxDim  int
	quality int
	logger  *observability.Logger
}

// NewPhotoService creates a new PhotoService
func NewPhotoService(maxDim, quality int, logger *observability.Logger) *PhotoService {
	if maxDim <= 0 {
		maxDim = DefaultPhotoMaxDim
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultPhotoQuality
	}
	if logger == nil {
		logger = observability.GetLogger()
	}
	return &PhotoService{maxDim: maxDim, quality: quality, logger: logger.WithField("component", "photo")}
}

// Prepare returns a JPEG data URL no larger than the configured dimension,
// upright according to its EXIF orientation. When the payload cannot be
// decoded it is returned unchanged.
func (s *PhotoService) Prepare(dataURL string) string {
	if dataURL == "" {
		return ""
	}
	out, err := s.prepare(dataURL)
	if err != nil {
		s.logger.WithError(err).Debug("Keeping original photo payload")
		return dataURL
	}
	return out
}

func (s *PhotoService) prepare(dataURL string) (string, error) {
	mime, raw, err := decodeDataURL(dataURL)
	if err != nil {
		return "", err
	}

	var img image.Image
	var orientation int
	if isHEICMime(mime) {
		img, err = goheif.Decode(bytes.NewReader(raw))
		if err != nil {
			return "", fmt.Errorf("failed to decode HEIC image: %w", err)
		}
		if meta, err := goheif.ExtractExif(bytes.NewReader(raw)); err == nil {
			orientation = readOrientation(meta)
		}
	} else {
		img, _, err = image.Decode(bytes.NewReader(raw))
		if err != nil {
			return "", fmt.Errorf("failed to decode image: %w", err)
		}
		orientation = readOrientation(raw)
	}

	img = applyOrientation(img, orientation)

	b := img.Bounds()
	if b.Dx() > s.maxDim || b.Dy() > s.maxDim {
		img = imaging.Fit(img, s.maxDim, s.maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(s.quality)); err != nil {
		return "", fmt.Errorf("failed to encode photo: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func decodeDataURL(dataURL string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, errNotDataURL
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return "", nil, errNotDataURL
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	return strings.TrimSuffix(header, ";base64"), raw, nil
}

func isHEICMime(mime string) bool {
	mime = strings.ToLower(mime)
	return mime == "image/heic" || mime == "image/heif"
}

// readOrientation returns the EXIF orientation (1-8), or 1 when absent
func readOrientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	if val, err := tag.Int(0); err == nil && val >= 1 && val <= 8 {
		return val
	}
	return 1
}

// applyOrientation corrects image orientation based on EXIF data
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		// transpose
		return imaging.Rotate270(imaging.FlipH(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		// transverse
		return imaging.Rotate90(imaging.FlipH(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
