package mockupkit

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an opaque 8-bit RGB color, as produced by the border sampler
// and consumed by fills and the background remover.
type Color struct {
	R, G, B uint8
}

// ParseHexColor parses "#rrggbb" (or "#rgb") into a Color.
func ParseHexColor(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse fill color %q: %w", s, err)
	}
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// Hex returns the "#rrggbb" form of c.
func (c Color) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.Hex()
}

// distSq is the squared Euclidean RGB distance between c and the given
// channels.
func (c Color) distSq(r, g, b uint8) float64 {
	dr := float64(c.R) - float64(r)
	dg := float64(c.G) - float64(g)
	db := float64(c.B) - float64(b)
	return dr*dr + dg*dg + db*db
}

// Fill describes what the compositor paints outside the placed source:
// either fully transparent or a solid opaque color.
type Fill struct {
	color Color
	solid bool
}

// Transparent returns a fill that leaves the unpainted area at alpha 0.
func Transparent() Fill { return Fill{} }

// Solid returns an opaque fill of the given color.
func Solid(c Color) Fill { return Fill{color: c, solid: true} }

// IsSolid reports whether f paints an opaque color, and returns it.
func (f Fill) IsSolid() (Color, bool) { return f.color, f.solid }
