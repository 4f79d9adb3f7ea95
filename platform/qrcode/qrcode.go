// Package qrcode renders QR code PNGs and overlays logos on them.
// This is part of the platform layer and contains no business logic.
package qrcode

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	goqr "github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DataURLPrefix prefixes every data URL returned by DataURL.
const DataURLPrefix = "data:image/png;base64,"

// Recovery levels. High leaves room for a centered logo.
const (
	Medium = goqr.Medium
	High   = goqr.High
)

// ErrEmptyContent is returned when there is nothing to encode.
var ErrEmptyContent = errors.New("qrcode: empty content")

// Render encodes content as a size×size QR symbol, black on white with the
// standard quiet zone.
func Render(content string, size int, level goqr.RecoveryLevel) (image.Image, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	q, err := goqr.New(content, level)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return q.Image(size), nil
}

// Compose draws logo centered on qr, scaled down to fit a box×box square
// with its aspect ratio kept. Logos smaller than the box are not enlarged.
func Compose(qr image.Image, logo []byte, box int) (image.Image, error) {
	img, err := DecodeLogo(logo)
	if err != nil {
		return nil, err
	}

	bounds := qr.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, qr, bounds.Min, draw.Src)

	w, h := fitInside(img.Bounds().Dx(), img.Bounds().Dy(), box)
	x := bounds.Min.X + (bounds.Dx()-w)/2
	y := bounds.Min.Y + (bounds.Dy()-h)/2
	target := image.Rect(x, y, x+w, y+h)

	if w == img.Bounds().Dx() && h == img.Bounds().Dy() {
		draw.Draw(canvas, target, img, img.Bounds().Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(canvas, target, img, img.Bounds(), draw.Over, nil)
	}
	return canvas, nil
}

// DecodeLogo decodes a PNG, JPEG, GIF or WebP logo. JPEG EXIF orientation is
// applied so the logo is upright.
func DecodeLogo(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, errors.New("qrcode: empty logo")
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode logo: %w", err)
	}
	if format == "jpeg" {
		img = applyOrientation(img, exifOrientation(data))
	}
	if img.Bounds().Empty() {
		return nil, errors.New("qrcode: logo has no pixels")
	}
	return img, nil
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURL wraps PNG bytes in a data URL.
func DataURL(pngBytes []byte) string {
	return DataURLPrefix + base64.StdEncoding.EncodeToString(pngBytes)
}

func fitInside(w, h, box int) (int, int) {
	if box <= 0 || (w <= box && h <= box) {
		return w, h
	}
	if w >= h {
		nh := h * box / w
		return box, max(nh, 1)
	}
	nw := w * box / h
	return max(nw, 1), box
}
