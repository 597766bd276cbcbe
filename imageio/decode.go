// Package imageio is the raster decode/encode boundary of mockupkit:
// orientation-aware decoding of common input formats and lossless,
// alpha-exact encoding of outputs.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	// WebP inputs decode through the stdlib registry; imaging brings
	// JPEG, PNG, GIF, TIFF and BMP itself.
	_ "golang.org/x/image/webp"
)

var (
	// ErrUnsupportedFormat reports input bytes in no registered image
	// format.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrCorruptData reports input that claimed a known format but
	// could not be decoded.
	ErrCorruptData = errors.New("corrupt image data")
	// ErrEncodeFailure reports that encoded output bytes could not be
	// produced.
	ErrEncodeFailure = errors.New("image encode failed")
)

// rasterExtensions are the flat raster inputs the pipeline accepts.
var rasterExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".tif":  true,
	".tiff": true,
	".bmp":  true,
	".gif":  true,
}

// layeredExtensions are the layered-document inputs.
var layeredExtensions = map[string]bool{
	".psd": true,
	".xcf": true,
}

// IsSupported reports whether path names a file type the pipeline can
// process, layered documents included.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return rasterExtensions[ext] || layeredExtensions[ext]
}

// IsLayered reports whether path names a layered-document format.
func IsLayered(path string) bool {
	return layeredExtensions[strings.ToLower(filepath.Ext(path))]
}

// Decode reads a raster image, applying any embedded EXIF orientation
// so callers always see upright pixels. Failures are classified as
// ErrUnsupportedFormat or ErrCorruptData; a malformed buffer is never
// returned.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	return img, nil
}
