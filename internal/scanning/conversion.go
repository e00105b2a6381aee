package scanning

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// textractFormats are the document formats AnalyzeExpense accepts as raw bytes
var textractFormats = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/tiff":      true,
	"application/pdf": true,
}

// DecodeImage decodes a receipt image. PDFs are rendered from their first
// page and HEIC/HEIF images are decoded in pure Go.
func DecodeImage(imageData []byte, contentType string) (image.Image, error) {
	mimeType := normalizeMimeType(contentType)

	if mimeType == "application/pdf" {
		doc, err := fitz.NewFromMemory(imageData)
		if err != nil {
			return nil, fmt.Errorf("opening PDF: %w", err)
		}
		defer doc.Close()

		// Render the first page (most receipts are single page)
		img, err := doc.Image(0)
		if err != nil {
			return nil, fmt.Errorf("rendering PDF page: %w", err)
		}
		return img, nil
	}

	// Check for HEIC/HEIF format (common on iPhones) - Go's standard image package doesn't support it
	if isHEICFormat(imageData) || isHEICMimeType(mimeType) {
		img, err := heic.Decode(bytes.NewReader(imageData))
		if err != nil {
			return nil, fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
		return img, nil
	}

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		if strings.Contains(err.Error(), "unknown format") || strings.Contains(err.Error(), "unsupported") {
			return nil, fmt.Errorf("unsupported image format. Supported formats: JPEG, PNG, GIF, TIFF, WebP, HEIC, HEIF, PDF. Error: %w", err)
		}
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// encodePNG encodes an image as PNG
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// isHEICFormat checks if the image data is in HEIC/HEIF format
// HEIC files typically start with specific magic bytes
func isHEICFormat(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	// ftyp box with brand 'heic', 'heif', 'mif1', 'msf1'
	if string(data[4:8]) == "ftyp" {
		brand := string(data[8:12])
		if brand == "heic" || brand == "heif" || brand == "mif1" || brand == "msf1" {
			return true
		}
	}
	return false
}

// isHEICMimeType checks if the MIME type indicates HEIC/HEIF format
func isHEICMimeType(mimeType string) bool {
	mimeType = normalizeMimeType(mimeType)
	return strings.Contains(mimeType, "heic") || strings.Contains(mimeType, "heif")
}

func normalizeMimeType(contentType string) string {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if mimeType == "" {
		mimeType = "image/jpeg" // default
	}
	return mimeType
}

// prepareForTextract passes through formats Textract reads natively and
// converts everything else (HEIC, GIF, WebP, ...) to PNG
func prepareForTextract(imageData []byte, contentType string) ([]byte, error) {
	mimeType := normalizeMimeType(contentType)
	if textractFormats[mimeType] && !isHEICFormat(imageData) {
		return imageData, nil
	}

	img, err := DecodeImage(imageData, mimeType)
	if err != nil {
		return nil, fmt.Errorf("converting image to PNG: %w", err)
	}
	return encodePNG(img)
}

// prepareImageData converts PDFs and non-PNG images to PNG for the vision
// LLM backends. Returns the PNG data and whether conversion occurred.
func prepareImageData(imageData []byte, contentType string) ([]byte, bool, error) {
	mimeType := normalizeMimeType(contentType)
	if mimeType == "image/png" && !isHEICFormat(imageData) {
		return imageData, false, nil
	}

	img, err := DecodeImage(imageData, mimeType)
	if err != nil {
		return nil, false, fmt.Errorf("converting image to PNG: %w", err)
	}
	pngData, err := encodePNG(img)
	if err != nil {
		return nil, false, err
	}
	return pngData, true, nil
}
