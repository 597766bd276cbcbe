package mockupkit

import "image"

// SamplerOptions tunes the dominant border-color estimate. The defaults
// are carried over from the original tool; they have no derivation
// beyond "works well in practice", so they stay configurable instead of
// hard-coded.
type SamplerOptions struct {
	// BucketSize is the per-channel quantization divisor used to bin
	// perimeter samples.
	BucketSize int
	// MaxEdgeSamples caps how many pixels are sampled per edge
	// dimension, bounding cost on very large images.
	MaxEdgeSamples int
	// AlphaThreshold is the alpha value at or below which a pixel
	// carries no color information and is skipped.
	AlphaThreshold uint8
}

// DefaultSamplerOptions returns the sampler configuration used by the
// pipeline entry points.
func DefaultSamplerOptions() SamplerOptions {
	return SamplerOptions{
		BucketSize:     24,
		MaxEdgeSamples: 240,
		AlphaThreshold: 8,
	}
}

type colorBin struct {
	sumR, sumG, sumB uint64
	count            int
}

// DetectDominantBorderColor estimates the background color of a buffer
// from its perimeter pixels. Samples along the top and bottom rows and
// the left and right columns are quantized into coarse bins; the most
// populated bin wins and its members' average raw color is returned,
// which is smoother than the quantized bin center. Ties go to the bin
// seen first. Returns false when no border pixel qualifies (fully
// transparent border or a degenerate buffer).
func DetectDominantBorderColor(buf *image.NRGBA, opt SamplerOptions) (Color, bool) {
	b := buf.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 || opt.BucketSize <= 0 {
		return Color{}, false
	}

	stride := 1
	if opt.MaxEdgeSamples > 0 {
		stride = max(1, min(w, h)/opt.MaxEdgeSamples)
	}
	bucket := uint8(min(opt.BucketSize, 255))

	bins := make([]colorBin, 0, 64)
	index := make(map[[3]uint8]int, 64)

	sample := func(x, y int) {
		off := buf.PixOffset(b.Min.X+x, b.Min.Y+y)
		if buf.Pix[off+3] <= opt.AlphaThreshold {
			return
		}
		r := buf.Pix[off]
		g := buf.Pix[off+1]
		bl := buf.Pix[off+2]
		key := [3]uint8{r / bucket, g / bucket, bl / bucket}
		i, ok := index[key]
		if !ok {
			i = len(bins)
			index[key] = i
			bins = append(bins, colorBin{})
		}
		bins[i].sumR += uint64(r)
		bins[i].sumG += uint64(g)
		bins[i].sumB += uint64(bl)
		bins[i].count++
	}

	for x := 0; x < w; x += stride {
		sample(x, 0)
		if h > 1 {
			sample(x, h-1)
		}
	}
	for y := 0; y < h; y += stride {
		sample(0, y)
		if w > 1 {
			sample(w-1, y)
		}
	}

	best := -1
	for i := range bins {
		if best < 0 || bins[i].count > bins[best].count {
			best = i
		}
	}
	if best < 0 {
		return Color{}, false
	}
	n := uint64(bins[best].count)
	return Color{
		R: uint8(bins[best].sumR / n),
		G: uint8(bins[best].sumG / n),
		B: uint8(bins[best].sumB / n),
	}, true
}
