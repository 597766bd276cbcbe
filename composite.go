package mockupkit

import (
	"image"
	"image/color"
	stddraw "image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
)

// RenderToSquare draws src into a freshly allocated targetSize×targetSize
// buffer using the contain-fit placement from ComputePlacement. The area
// outside the placed source is painted with fill. Resampling uses the
// Catmull-Rom kernel; nearest-neighbor visibly degrades downscaled
// mockups and is never used.
//
// src is not modified. The returned buffer is always exactly
// targetSize×targetSize, whatever the source aspect ratio.
func RenderToSquare(src *image.NRGBA, targetSize int, fill Fill) (*image.NRGBA, Placement, error) {
	b := src.Bounds()
	pl, err := ComputePlacement(b.Dx(), b.Dy(), targetSize)
	if err != nil {
		return nil, Placement{}, err
	}

	dst := NewBuffer(targetSize, targetSize)
	if c, ok := fill.IsSolid(); ok {
		stddraw.Draw(dst, dst.Bounds(), &image.Uniform{
			C: color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255},
		}, image.Point{}, stddraw.Src)
	}
	// NewBuffer already cleared everything to alpha 0 for the
	// transparent case.

	rect := placementRect(pl)
	xdraw.CatmullRom.Scale(dst, rect, src, b, xdraw.Over, nil)
	return dst, pl, nil
}

// placementRect converts the float placement to the integer destination
// rectangle, rounding so the contain guarantee survives: the larger
// dimension spans the full target edge.
func placementRect(pl Placement) image.Rectangle {
	x0 := int(math.Round(pl.X))
	y0 := int(math.Round(pl.Y))
	x1 := int(math.Round(pl.X + pl.Width))
	y1 := int(math.Round(pl.Y + pl.Height))
	return image.Rect(x0, y0, x1, y1)
}
