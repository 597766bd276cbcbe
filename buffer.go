// Package mockupkit normalizes raster images into fixed-size square
// outputs without cropping or distortion. It provides the contain-fit
// placement math, a resampling compositor with configurable fill, a
// dominant border-color sampler and a connected-background remover,
// plus pipeline entry points that combine them.
package mockupkit

import (
	"image"
	"image/draw"
)

// NewBuffer allocates a zero-origin, fully transparent NRGBA buffer.
// All mockupkit operations work on buffers of this shape: bounds at
// (0,0) and Stride == 4*width, so len(Pix) == width*height*4.
func NewBuffer(width, height int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, width, height))
}

// ToNRGBA converts any image into the canonical buffer shape. Buffers
// that already match are returned as-is; everything else (including
// NRGBA sub-images with a larger stride) is copied.
func ToNRGBA(img image.Image) *image.NRGBA {
	if buf, ok := img.(*image.NRGBA); ok {
		b := buf.Bounds()
		if b.Min.X == 0 && b.Min.Y == 0 && buf.Stride == 4*b.Dx() {
			return buf
		}
	}
	b := img.Bounds()
	out := NewBuffer(b.Dx(), b.Dy())
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

func pixOffset(w, x, y int) int {
	return (y*w + x) * 4
}
