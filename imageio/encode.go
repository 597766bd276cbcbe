package imageio

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
)

// EncodePNG writes img losslessly with the alpha channel preserved
// exactly, which the pipeline requires so transparent fills and alpha
// punches survive encoding.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("%w: %v", ErrEncodeFailure, err)
	}
	return nil
}

// SavePNG encodes img into a new file at path.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncodeFailure, err)
	}
	defer f.Close()
	return EncodePNG(f, img)
}
