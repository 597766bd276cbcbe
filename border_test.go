package mockupkit

import (
	"image/color"
	"testing"
)

func TestDetectDominantBorderColor_SolidBorder(t *testing.T) {
	buf := NewBuffer(10, 10)
	fillSolid(buf, color.NRGBA{G: 255, A: 255})
	for y := 1; y < 9; y++ {
		for x := 1; x < 9; x++ {
			buf.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
		}
	}

	c, ok := DetectDominantBorderColor(buf, DefaultSamplerOptions())
	if !ok {
		t.Fatalf("expected a detection")
	}
	if c.G != 255 || c.R != 0 || c.B != 0 {
		t.Fatalf("expected green border, got %+v", c)
	}
}

func TestDetectDominantBorderColor_IgnoresInterior(t *testing.T) {
	// A large red interior must not outvote the green perimeter.
	buf := NewBuffer(50, 50)
	fillSolid(buf, color.NRGBA{R: 255, A: 255})
	for x := 0; x < 50; x++ {
		buf.SetNRGBA(x, 0, color.NRGBA{G: 255, A: 255})
		buf.SetNRGBA(x, 49, color.NRGBA{G: 255, A: 255})
	}
	for y := 0; y < 50; y++ {
		buf.SetNRGBA(0, y, color.NRGBA{G: 255, A: 255})
		buf.SetNRGBA(49, y, color.NRGBA{G: 255, A: 255})
	}

	c, ok := DetectDominantBorderColor(buf, DefaultSamplerOptions())
	if !ok || c.G != 255 || c.R != 0 {
		t.Fatalf("expected perimeter green, got %+v ok=%v", c, ok)
	}
}

func TestDetectDominantBorderColor_FullyTransparent(t *testing.T) {
	buf := NewBuffer(16, 16)
	if _, ok := DetectDominantBorderColor(buf, DefaultSamplerOptions()); ok {
		t.Fatalf("expected no detection on a fully transparent buffer")
	}
}

func TestDetectDominantBorderColor_BinAverage(t *testing.T) {
	// 250 and 240 land in the same /24 bucket; the result is the raw
	// average of the bin members, not the bucket center.
	buf := NewBuffer(8, 8)
	fillSolid(buf, color.NRGBA{R: 250, A: 255})
	for x := 0; x < 8; x++ {
		buf.SetNRGBA(x, 7, color.NRGBA{R: 240, A: 255})
	}

	c, ok := DetectDominantBorderColor(buf, DefaultSamplerOptions())
	if !ok {
		t.Fatalf("expected a detection")
	}
	if c.R <= 240 || c.R >= 250 {
		t.Fatalf("expected averaged red between 240 and 250, got %d", c.R)
	}
	if c.G != 0 || c.B != 0 {
		t.Fatalf("expected zero green/blue, got %+v", c)
	}
}

func TestDetectDominantBorderColor_TieGoesToFirstBin(t *testing.T) {
	// 2x2: every pixel is sampled twice (once per touching edge), so
	// red (top row) and blue (bottom row) tie. The top row is walked
	// first, so red wins.
	buf := NewBuffer(2, 2)
	buf.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	buf.SetNRGBA(1, 0, color.NRGBA{R: 255, A: 255})
	buf.SetNRGBA(0, 1, color.NRGBA{B: 255, A: 255})
	buf.SetNRGBA(1, 1, color.NRGBA{B: 255, A: 255})

	c, ok := DetectDominantBorderColor(buf, DefaultSamplerOptions())
	if !ok || c.R != 255 || c.B != 0 {
		t.Fatalf("expected the first bin (red) to win the tie, got %+v ok=%v", c, ok)
	}
}

func TestDetectDominantBorderColor_SkipsTransparentSamples(t *testing.T) {
	// Transparent top half of the border carries no color information;
	// the opaque bottom half decides.
	buf := NewBuffer(10, 10)
	for x := 0; x < 10; x++ {
		buf.SetNRGBA(x, 9, color.NRGBA{B: 200, A: 255})
	}
	c, ok := DetectDominantBorderColor(buf, DefaultSamplerOptions())
	if !ok || c.B != 200 {
		t.Fatalf("expected blue from the opaque border pixels, got %+v ok=%v", c, ok)
	}
}
