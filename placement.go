package mockupkit

import "fmt"

// Placement describes where a source rectangle lands inside a square
// target: the classic "contain" fit. The whole source stays visible,
// centered, uniformly scaled, and the larger dimension touches the
// target edge.
type Placement struct {
	X, Y          float64
	Width, Height float64
	Scale         float64
}

// ComputePlacement fits srcW×srcH inside a targetSize square without
// cropping or distortion. All inputs must be strictly positive.
func ComputePlacement(srcW, srcH, targetSize int) (Placement, error) {
	if srcW <= 0 || srcH <= 0 || targetSize <= 0 {
		return Placement{}, fmt.Errorf("%w: %dx%d into %d", ErrInvalidDimensions, srcW, srcH, targetSize)
	}
	t := float64(targetSize)
	scale := min(t/float64(srcW), t/float64(srcH))
	w := float64(srcW) * scale
	h := float64(srcH) * scale
	return Placement{
		X:      (t - w) / 2,
		Y:      (t - h) / 2,
		Width:  w,
		Height: h,
		Scale:  scale,
	}, nil
}
