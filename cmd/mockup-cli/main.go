// mockup-cli batch-normalizes raster and layered-document images into
// fixed-size square PNGs. Sources come from a directory scan; each file
// is contain-fitted into the target square with the requested
// background handling, and layered documents can optionally be split
// into one output per layer.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"mockupkit"
	"mockupkit/batch"
	"mockupkit/imageio"
	"mockupkit/palette"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		inputDir     string
		outputDir    string
		size         int
		workers      int
		overwrite    bool
		nonRecursive bool
		removeBg     bool
		tolerance    float64
		fill         string
		layers       bool
		verbose      bool
	)

	flags := pflag.NewFlagSet("mockup-cli", pflag.ContinueOnError)
	flags.StringVar(&inputDir, "input-dir", "", "directory with input images")
	flags.StringVar(&outputDir, "output-dir", "", "directory for the square PNG outputs")
	flags.IntVar(&size, "size", 800, "output square edge in pixels")
	flags.IntVar(&workers, "workers", 3, "parallel workers (1-8)")
	flags.BoolVar(&overwrite, "overwrite", false, "overwrite existing outputs")
	flags.BoolVar(&nonRecursive, "non-recursive", false, "only scan the top-level input directory")
	flags.BoolVar(&removeBg, "remove-background", false, "detect the border color and make the connected background transparent")
	flags.Float64Var(&tolerance, "background-tolerance", 24, "RGB distance within which a pixel counts as background")
	flags.StringVar(&fill, "fill", "#ffffff", `background fill: "#rrggbb", "transparent", "auto" (per-image border color), "palette" or "palette-kmeans" (one shared color extracted from the first input)`)
	flags.BoolVar(&layers, "layers", false, "split layered documents (PSD, XCF) into one output per layer")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log details to stderr")

	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if inputDir == "" || outputDir == "" {
		flags.Usage()
		return fmt.Errorf("--input-dir and --output-dir are required")
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	mockupkit.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	opts := batch.DefaultOptions()
	opts.TargetSize = size
	opts.Workers = workers
	opts.Overwrite = overwrite
	opts.DecomposeLayers = layers
	opts.Normalize.RemoveBackground = removeBg
	opts.Normalize.BackgroundTolerance = tolerance

	inputs := batch.Collect(inputDir, !nonRecursive)
	if len(inputs) == 0 {
		return fmt.Errorf("no supported images under %s", inputDir)
	}

	if err := applyFill(&opts, fill, inputs); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results := batch.Process(ctx, inputs, outputDir, opts, func(done, total int, r batch.Result) {
		fmt.Printf("[%d/%d] %-7s %s %s\n", done, total, r.Status, r.Input, r.Message)
	})

	errs := 0
	for _, r := range results {
		if r.Status == batch.StatusError {
			errs++
		}
	}
	fmt.Printf("done: %d processed, %d errors\n", len(results), errs)
	if errs > 0 {
		return fmt.Errorf("%d inputs failed", errs)
	}
	return nil
}

// applyFill maps the --fill flag onto normalization options. The
// "palette" modes derive one shared background color from the first
// input so the whole batch gets a uniform look.
func applyFill(opts *batch.Options, fill string, inputs []string) error {
	switch strings.ToLower(fill) {
	case "transparent":
		opts.Normalize.TransparentFill = true
		return nil
	case "auto":
		opts.Normalize.SynthesizeDominantBackground = true
		return nil
	case "palette", "palette-kmeans":
		method := palette.MethodDominantColor
		if strings.HasSuffix(fill, "kmeans") {
			method = palette.MethodKMeans
		}
		src := ""
		for _, in := range inputs {
			if !imageio.IsLayered(in) {
				src = in
				break
			}
		}
		if src == "" {
			return fmt.Errorf("--fill %s needs at least one flat raster input", fill)
		}
		c, err := sharedFill(src, method)
		if err != nil {
			return fmt.Errorf("extract shared fill from %s: %w", src, err)
		}
		opts.Normalize.FallbackColor = c
		return nil
	default:
		c, err := mockupkit.ParseHexColor(fill)
		if err != nil {
			return err
		}
		opts.Normalize.FallbackColor = c
		return nil
	}
}

func sharedFill(path string, method palette.Method) (mockupkit.Color, error) {
	f, err := os.Open(path)
	if err != nil {
		return mockupkit.Color{}, err
	}
	defer f.Close()
	img, err := imageio.Decode(f)
	if err != nil {
		return mockupkit.Color{}, err
	}
	c, ok := palette.BackgroundColor(img, method)
	if !ok {
		return mockupkit.Color{}, fmt.Errorf("no usable color in %s", path)
	}
	return c, nil
}
