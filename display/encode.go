// Package display presents finished rasters: it encodes them to image files
// and scales them for previews.
package display

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// ErrUnsupportedFormat is returned for an unknown image format or extension.
var ErrUnsupportedFormat = errors.New("display: unsupported format")

// Format is an image file encoding.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// Formats lists every supported Format.
var Formats = []Format{PNG, JPEG, BMP, TIFF}

// ParseFormat accepts a format name or file extension, with or without the
// leading dot, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(s), ".") {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FormatFromPath derives the format from the file extension of path.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnsupportedFormat, path)
	}
	return ParseFormat(ext)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case JPEG:
		return "image/jpeg"
	case BMP:
		return "image/bmp"
	case TIFF:
		return "image/tiff"
	default:
		return "image/png"
	}
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	var err error
	switch f {
	case PNG:
		err = png.Encode(w, img)
	case JPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case BMP:
		err = bmp.Encode(w, img)
	case TIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return fmt.Errorf("display: encode %s: %w", f, err)
	}
	return nil
}

// Save writes img to the file at path in format f.
func Save(path string, img image.Image, f Format) error {
	out, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("display: create file: %w", err)
	}

	if err := Encode(out, img, f); err != nil {
		_ = out.Close()
		return err
	}

	return out.Close()
}

// Scale returns img resized to width pixels, keeping the aspect ratio.
// A width < 1 or not smaller than the source returns img unchanged.
func Scale(img *image.RGBA, width int) *image.RGBA {
	b := img.Bounds()
	if width < 1 || width >= b.Dx() {
		return img
	}
	height := max(1, b.Dy()*width/b.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
