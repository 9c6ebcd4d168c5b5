package filestorage

import (
	"bytes"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
)

// MaxPhotoSide bounds the width and height of stored profile photos.
const MaxPhotoSide = 512

// NormalizeImage decodes an uploaded image, applies its EXIF orientation and
// shrinks it to fit within maxSide x maxSide. The result is re-encoded in the
// format implied by name; JPEG is used when the name has no known image
// extension.
func NormalizeImage(r io.Reader, name string, maxSide int) (io.Reader, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() > maxSide || b.Dy() > maxSide {
		img = imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
	}

	format, err := imaging.FormatFromFilename(name)
	if err != nil {
		format = imaging.JPEG
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return &buf, nil
}
