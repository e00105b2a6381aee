package receipt

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"

	"github.com/zombor/receipt-scanner/internal/scanning"
)

// ThumbnailWidth is the maximum width of a generated thumbnail
const ThumbnailWidth = 320

// makeThumbnail renders a PNG no wider than maxWidth from a stored receipt
// image. Smaller images keep their size.
func makeThumbnail(data []byte, contentType string, maxWidth int) ([]byte, error) {
	src, err := scanning.DecodeImage(data, contentType)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > maxWidth {
		h = h * maxWidth / w
		if h < 1 {
			h = 1
		}
		w = maxWidth
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encoding thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
