// Package palette extracts candidate fill colors from an image, for
// callers that want a synthesized background when border detection is
// not applicable (e.g. the CLI's --fill auto mode).
package palette

import (
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"mockupkit"
)

// Method selects the extraction algorithm.
type Method int

const (
	MethodDominantColor Method = iota
	MethodKMeans
)

func (m Method) String() string {
	switch m {
	case MethodKMeans:
		return "kmeans"
	default:
		return "dominantcolor"
	}
}

type weighted struct {
	col    colorful.Color
	weight float64
}

// BackgroundColor picks a single fill color for img: the strongest
// candidate of the chosen method. Returns false when nothing could be
// extracted (e.g. a fully transparent image under kmeans).
func BackgroundColor(img image.Image, method Method) (mockupkit.Color, bool) {
	p := Extract(img, 1, method)
	if len(p) == 0 {
		return mockupkit.Color{}, false
	}
	r, g, b := p[0].Clamped().RGB255()
	return mockupkit.Color{R: r, G: g, B: b}, true
}

// Extract returns up to k palette colors, strongest first, spread apart
// in Lab space so near-duplicates don't crowd out distinct tones.
func Extract(img image.Image, k int, method Method) []colorful.Color {
	switch method {
	case MethodKMeans:
		if p := kmeansCandidates(img, k); len(p) != 0 {
			return selectDiverse(p, k)
		}
		mockupkit.Logger().Warn("kmeans palette empty, falling back to dominantcolor")
		return selectDiverse(dominantCandidates(img, k), k)
	default:
		return selectDiverse(dominantCandidates(img, k), k)
	}
}

// SortByBrightness orders colors darkest first, so palette[0] is the
// natural background pick for dark-on-light artwork.
func SortByBrightness(p []colorful.Color) {
	slices.SortFunc(p, func(a, b colorful.Color) int {
		ra, ga, ba := a.LinearRgb()
		rb, gb, bb := b.LinearRgb()
		ya := 0.2126*ra + 0.7152*ga + 0.0722*ba
		yb := 0.2126*rb + 0.7152*gb + 0.0722*bb
		switch {
		case ya < yb:
			return -1
		case ya > yb:
			return 1
		default:
			return 0
		}
	})
}

func dominantCandidates(img image.Image, k int) []weighted {
	n := max(24, k*8)
	found := dominantcolor.FindWeight(img, n)
	if len(found) == 0 {
		// Avoid an empty palette breaking downstream picks.
		found = append(found, dominantcolor.Color{
			RGBA:   color.RGBA{R: 128, G: 128, B: 128, A: 255},
			Weight: 1.0,
		})
	}
	out := make([]weighted, 0, len(found))
	for _, c := range found {
		col, _ := colorful.MakeColor(c.RGBA)
		w := c.Weight
		if w <= 0 {
			w = 1e-6
		}
		out = append(out, weighted{col: col.Clamped(), weight: w})
	}
	return out
}

func kmeansCandidates(img image.Image, k int) []weighted {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	// Subsample to keep kmeans tractable on large images.
	const maxSamples = 12000
	step := 1
	if w*h > maxSamples {
		step = int(math.Sqrt(float64(w*h)/float64(maxSamples))) + 1
	}

	dataset := make(clusters.Observations, 0, min(w*h, maxSamples))
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			r16, g16, b16, a16 := img.At(x, y).RGBA()
			if a16 == 0 {
				continue
			}
			dataset = append(dataset, clusters.Coordinates{
				float64(r16) / 65535.0,
				float64(g16) / 65535.0,
				float64(b16) / 65535.0,
			})
		}
	}
	if len(dataset) == 0 {
		return nil
	}

	workK := min(max(k*4, k+2), len(dataset))
	km := kmeans.New()
	cc, err := km.Partition(dataset, workK)
	if err != nil || len(cc) == 0 {
		return nil
	}

	out := make([]weighted, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped()
		wgt := float64(len(c.Observations))
		if wgt <= 0 {
			wgt = 1e-6
		}
		out = append(out, weighted{col: col, weight: wgt})
	}
	return out
}

// selectDiverse greedily picks k candidates: seed with the heaviest,
// then repeatedly take the candidate farthest (in Lab) from everything
// already chosen, weight-boosted so strong tones still win close calls.
func selectDiverse(cands []weighted, k int) []colorful.Color {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	if k > len(cands) {
		k = len(cands)
	}

	type item struct {
		col colorful.Color
		lab [3]float64
		w   float64
	}
	items := make([]item, len(cands))
	maxW := 0.0
	for i, c := range cands {
		l, a, b := c.col.Lab()
		items[i] = item{col: c.col, lab: [3]float64{l, a, b}, w: c.weight}
		if c.weight > maxW {
			maxW = c.weight
		}
	}
	if maxW <= 0 {
		maxW = 1.0
	}

	chosen := make([]int, 0, k)
	taken := make([]bool, len(items))

	seed := 0
	for i := 1; i < len(items); i++ {
		if items[i].w > items[seed].w {
			seed = i
		}
	}
	chosen = append(chosen, seed)
	taken[seed] = true

	for len(chosen) < k {
		bestIdx, bestScore := -1, -1.0
		for i := range items {
			if taken[i] {
				continue
			}
			minD2 := math.MaxFloat64
			for _, s := range chosen {
				d0 := items[i].lab[0] - items[s].lab[0]
				d1 := items[i].lab[1] - items[s].lab[1]
				d2 := items[i].lab[2] - items[s].lab[2]
				if d := d0*d0 + d1*d1 + d2*d2; d < minD2 {
					minD2 = d
				}
			}
			score := math.Sqrt(minD2) * (0.55 + 0.45*math.Sqrt(items[i].w/maxW))
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			break
		}
		taken[bestIdx] = true
		chosen = append(chosen, bestIdx)
	}

	out := make([]colorful.Color, len(chosen))
	for i, idx := range chosen {
		out[i] = items[idx].col
	}
	return out
}
