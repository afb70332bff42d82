// Package imaging turns uploaded photos into character portraits.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

// PortraitSize is the width and height of every stored portrait.
const PortraitSize = 512

// MaxUploadBytes caps the size of an uploaded photo.
const MaxUploadBytes = 8 << 20

// JPEGQuality is the compression quality for stored portraits.
const JPEGQuality = 85

// PortraitMIME is the content type of every stored portrait.
const PortraitMIME = "image/jpeg"

// ErrTooLarge is returned for uploads over MaxUploadBytes.
var ErrTooLarge = errors.New("image too large")

var accepted = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Portrait reads a JPEG or PNG photo, crops the largest centred square out of
// it and scales that to PortraitSize. The format is sniffed from the bytes;
// client headers are not trusted.
func Portrait(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return nil, ErrTooLarge
	}

	if mime := http.DetectContentType(data); !accepted[mime] {
		return nil, fmt.Errorf("unsupported image format %s (only JPEG and PNG)", mime)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, PortraitSize, PortraitSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, centreSquare(src.Bounds()), draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding portrait: %w", err)
	}
	return buf.Bytes(), nil
}

// centreSquare returns the largest square inside b sharing its centre.
func centreSquare(b image.Rectangle) image.Rectangle {
	side := min(b.Dx(), b.Dy())
	x := b.Min.X + (b.Dx()-side)/2
	y := b.Min.Y + (b.Dy()-side)/2
	return image.Rect(x, y, x+side, y+side)
}
