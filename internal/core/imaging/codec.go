// Package imaging turns arbitrary cover art into square JPEGs.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

const (
	DefaultSize    = 600
	DefaultQuality = 80

	minImageBytes = 100
)

// ErrImageTooSmall is returned for payloads too short to be a real image
var ErrImageTooSmall = errors.New("image data too small")

// Codec center-crops to a square, resizes and re-encodes as JPEG
type Codec struct {
	size    int
	quality int
}

// NewCodec returns a codec. Non-positive values use the defaults.
func NewCodec(size, quality int) *Codec {
	if size <= 0 {
		size = DefaultSize
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	return &Codec{size: size, quality: quality}
}

// SquareJPEG decodes JPEG, PNG or WebP data and returns a size x size JPEG
func (c *Codec) SquareJPEG(data []byte) ([]byte, error) {
	if len(data) < minImageBytes {
		return nil, ErrImageTooSmall
	}

	img, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	squared := imaging.Fill(img, c.size, c.size, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, squared, imaging.JPEG, imaging.JPEGQuality(c.quality)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// decode sniffs the payload since thumbnails arrive without a reliable content type
func decode(data []byte) (image.Image, error) {
	reader := bytes.NewReader(data)

	switch http.DetectContentType(data) {
	case "image/jpeg":
		return jpeg.Decode(reader)
	case "image/png":
		return png.Decode(reader)
	case "image/webp":
		return webp.Decode(reader)
	default:
		return imaging.Decode(reader)
	}
}
