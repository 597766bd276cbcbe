package layer

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/gonutz/xcf"
)

// LoadXCF reads a GIMP XCF file and builds a Document from its visible
// layers. XCF canvases expose a flat layer list, so every layer becomes
// a root-level leaf; the layer's bounds give its offset within the
// canvas.
func LoadXCF(path string) (*Document, error) {
	canvas, err := xcf.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load xcf: %w", err)
	}
	return FromXCF(canvas), nil
}

// FromXCF converts a decoded XCF canvas into a Document. Hidden layers
// are dropped; they do not contribute to any composite.
func FromXCF(canvas xcf.Canvas) *Document {
	doc := &Document{
		Width:  int(canvas.Width),
		Height: int(canvas.Height),
	}
	for _, l := range canvas.Layers {
		if !l.Visible {
			continue
		}
		b := l.Bounds()
		doc.Root = append(doc.Root, Node{
			Name:   l.Name,
			Pixels: rasterize(l),
			Left:   b.Min.X,
			Top:    b.Min.Y,
		})
	}
	return doc
}

// rasterize copies any image into a zero-origin NRGBA buffer.
func rasterize(img image.Image) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
