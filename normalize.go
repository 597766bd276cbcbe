package mockupkit

import (
	"image"

	"mockupkit/layer"
)

// Options controls how NormalizeToSquare treats the background.
type Options struct {
	// RemoveBackground punches the detected border color out of the
	// output: the fill is transparent and the connected background is
	// made transparent too. Takes precedence over
	// SynthesizeDominantBackground.
	RemoveBackground bool
	// TransparentFill leaves the unpainted area of the output at alpha
	// 0 without removing anything from the placed source.
	TransparentFill bool
	// SynthesizeDominantBackground fills the output with the detected
	// dominant border color instead of FallbackColor, when detection
	// succeeds.
	SynthesizeDominantBackground bool
	// FallbackColor fills the output when no background handling is
	// requested or border detection fails.
	FallbackColor Color
	// BackgroundTolerance is the Euclidean RGB distance within which a
	// pixel counts as background during removal.
	BackgroundTolerance float64
	// Sampler tunes border-color detection.
	Sampler SamplerOptions
}

// DefaultOptions returns the pipeline defaults: white fallback fill, no
// background handling, moderate removal tolerance.
func DefaultOptions() Options {
	return Options{
		FallbackColor:       Color{R: 255, G: 255, B: 255},
		BackgroundTolerance: 24,
		Sampler:             DefaultSamplerOptions(),
	}
}

// Result is the output of one NormalizeToSquare run.
type Result struct {
	Output    *image.NRGBA
	Placement Placement
	// DominantColor is the detected border color; DominantOK reports
	// whether detection succeeded.
	DominantColor Color
	DominantOK    bool
}

// LayerResult is one normalized layer produced by DecomposeAndNormalize.
type LayerResult struct {
	Name      string
	Output    *image.NRGBA
	Placement Placement
}

// NormalizeToSquare renders src into a targetSize×targetSize buffer per
// opts. With RemoveBackground the output is composited over a
// transparent fill and the border color detected on the source is then
// removed from the output; otherwise the fill is the detected dominant
// color (if requested and found) or FallbackColor.
func NormalizeToSquare(src *image.NRGBA, targetSize int, opts Options) (*Result, error) {
	dominant, ok := DetectDominantBorderColor(src, opts.Sampler)

	fill := Solid(opts.FallbackColor)
	switch {
	case opts.RemoveBackground, opts.TransparentFill:
		fill = Transparent()
	case opts.SynthesizeDominantBackground && ok:
		fill = Solid(dominant)
	}

	out, pl, err := RenderToSquare(src, targetSize, fill)
	if err != nil {
		return nil, err
	}

	if opts.RemoveBackground && ok {
		RemoveConnectedBackground(out, dominant, opts.BackgroundTolerance)
	}

	Logger().Debug("normalized image",
		"target", targetSize,
		"scale", pl.Scale,
		"dominantDetected", ok,
		"removeBackground", opts.RemoveBackground)

	return &Result{
		Output:        out,
		Placement:     pl,
		DominantColor: dominant,
		DominantOK:    ok,
	}, nil
}

// DecomposeAndNormalize flattens every usable leaf layer of doc and
// normalizes each one with NormalizeToSquare. Names keep the group-path
// prefixes assigned by the decomposer; sibling collisions are the
// caller's naming policy. Fails with layer.ErrEmptyDocument when the
// document has no usable raster layer.
func DecomposeAndNormalize(doc *layer.Document, targetSize int, opts Options) ([]LayerResult, error) {
	flat, err := doc.Decompose()
	if err != nil {
		return nil, err
	}
	results := make([]LayerResult, 0, len(flat))
	for _, f := range flat {
		r, err := NormalizeToSquare(f.Pixels, targetSize, opts)
		if err != nil {
			return nil, err
		}
		results = append(results, LayerResult{
			Name:      f.Name,
			Output:    r.Output,
			Placement: r.Placement,
		})
	}
	return results, nil
}
