// Package batch runs the mockupkit pipeline over many input files with
// a bounded worker pool. One malformed input never aborts the rest of
// the run; it becomes an error result and processing continues.
package batch

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"mockupkit"
	"mockupkit/imageio"
	"mockupkit/layer"
)

// Status classifies the outcome of one input file.
type Status string

const (
	StatusOK      Status = "ok"
	StatusSkipped Status = "skipped"
	StatusError   Status = "error"
)

// Result reports what happened to one input file.
type Result struct {
	Input   string
	Outputs []string
	Status  Status
	Message string
}

// Options configures a batch run.
type Options struct {
	// TargetSize is the square output edge in pixels.
	TargetSize int
	// Workers bounds pipeline concurrency; clamped to 1..8.
	Workers int
	// Overwrite replaces existing outputs instead of skipping them.
	Overwrite bool
	// DecomposeLayers emits one normalized output per layer for
	// layered documents instead of one output for the composite.
	DecomposeLayers bool
	// Normalize is passed through to mockupkit.NormalizeToSquare.
	Normalize mockupkit.Options
}

// DefaultOptions mirrors the original tool: 800px outputs, three
// workers.
func DefaultOptions() Options {
	return Options{
		TargetSize: 800,
		Workers:    3,
		Normalize:  mockupkit.DefaultOptions(),
	}
}

// Progress is called after each finished input with the running done
// count, the total, and that input's result. Called from worker
// goroutines one at a time.
type Progress func(done, total int, r Result)

// Process runs every input through the pipeline and writes outputs into
// outputDir, creating it if needed. Results come back in input order.
// Cancelling ctx stops picking up new inputs; already-running items
// finish and the untouched remainder is reported as skipped.
func Process(ctx context.Context, inputs []string, outputDir string, opts Options, progress Progress) []Result {
	results := make([]Result, len(inputs))
	if len(inputs) == 0 {
		return results
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		for i, in := range inputs {
			results[i] = Result{Input: in, Status: StatusError, Message: fmt.Sprintf("create output dir: %v", err)}
		}
		return results
	}

	workers := max(1, min(opts.Workers, 8))
	jobs := make(chan int)
	durations := make([]time.Duration, 0, len(inputs))

	var mu sync.Mutex
	done := 0
	report := func(i int, r Result, took time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		results[i] = r
		done++
		if r.Status == StatusOK {
			durations = append(durations, took)
		}
		if progress != nil {
			progress(done, len(inputs), r)
		}
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				start := time.Now()
				r := processOne(inputs[i], outputDir, opts)
				report(i, r, time.Since(start))
			}
		}()
	}

	canceled := false
	for i := range inputs {
		if !canceled && ctx.Err() != nil {
			canceled = true
		}
		if canceled {
			// No select once canceled: a ready worker must not race the
			// done channel and dispatch a post-cancel input.
			report(i, Result{Input: inputs[i], Status: StatusSkipped, Message: "run canceled"}, 0)
			continue
		}
		select {
		case <-ctx.Done():
			canceled = true
			report(i, Result{Input: inputs[i], Status: StatusSkipped, Message: "run canceled"}, 0)
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	logSummary(results, durations)
	return results
}

func processOne(input, outputDir string, opts Options) Result {
	if !imageio.IsSupported(input) {
		return Result{Input: input, Status: StatusError, Message: "unsupported format"}
	}
	if imageio.IsLayered(input) {
		if opts.DecomposeLayers {
			return processLayered(input, outputDir, opts)
		}
		return processComposite(input, outputDir, opts)
	}
	return processRaster(input, outputDir, opts)
}

func processRaster(input, outputDir string, opts Options) Result {
	out := OutputPath(outputDir, input, opts.TargetSize)
	if skip := skipExisting(input, out, opts); skip != nil {
		return *skip
	}

	f, err := os.Open(input)
	if err != nil {
		return errorResult(input, "open", err)
	}
	defer f.Close()
	img, err := imageio.Decode(f)
	if err != nil {
		return errorResult(input, "decode", err)
	}

	return normalizeAndSave(input, out, mockupkit.ToNRGBA(img), opts)
}

// processComposite handles a layered input when only the flat composite
// was requested: PSD ships one pre-merged, XCF is composited here.
func processComposite(input, outputDir string, opts Options) Result {
	out := OutputPath(outputDir, input, opts.TargetSize)
	if skip := skipExisting(input, out, opts); skip != nil {
		return *skip
	}

	src, err := loadComposite(input)
	if err != nil {
		return errorResult(input, "decode", err)
	}
	return normalizeAndSave(input, out, src, opts)
}

func processLayered(input, outputDir string, opts Options) Result {
	doc, err := loadDocument(input)
	if err != nil {
		return errorResult(input, "decode", err)
	}
	layers, err := mockupkit.DecomposeAndNormalize(doc, opts.TargetSize, opts.Normalize)
	if err != nil {
		return errorResult(input, "decompose", err)
	}

	used := make(map[string]int, len(layers))
	outputs := make([]string, 0, len(layers))
	for _, l := range layers {
		name := uniqueName(used, l.Name)
		out := LayerOutputPath(outputDir, input, name, opts.TargetSize)
		if _, statErr := os.Stat(out); statErr == nil && !opts.Overwrite {
			continue
		}
		if err := imageio.SavePNG(out, l.Output); err != nil {
			return errorResult(input, "encode", err)
		}
		outputs = append(outputs, out)
	}
	if len(outputs) == 0 {
		return Result{Input: input, Status: StatusSkipped, Message: "all layer outputs exist (overwrite disabled)"}
	}
	return Result{
		Input:   input,
		Outputs: outputs,
		Status:  StatusOK,
		Message: fmt.Sprintf("exported %d layers", len(outputs)),
	}
}

func normalizeAndSave(input, out string, src *image.NRGBA, opts Options) Result {
	res, err := mockupkit.NormalizeToSquare(src, opts.TargetSize, opts.Normalize)
	if err != nil {
		return errorResult(input, "normalize", err)
	}
	if err := imageio.SavePNG(out, res.Output); err != nil {
		return errorResult(input, "encode", err)
	}
	return Result{
		Input:   input,
		Outputs: []string{out},
		Status:  StatusOK,
		Message: fmt.Sprintf("exported %dx%d", opts.TargetSize, opts.TargetSize),
	}
}

// skipExisting returns a skip result when the output already exists and
// overwriting is disabled, nil otherwise.
func skipExisting(input, out string, opts Options) *Result {
	if opts.Overwrite {
		return nil
	}
	if _, err := os.Stat(out); err == nil {
		return &Result{
			Input:   input,
			Outputs: []string{out},
			Status:  StatusSkipped,
			Message: "output exists (overwrite disabled)",
		}
	}
	return nil
}

func errorResult(input, stage string, err error) Result {
	return Result{Input: input, Status: StatusError, Message: fmt.Sprintf("%s: %v", stage, err)}
}

func loadDocument(input string) (*layer.Document, error) {
	if strings.EqualFold(filepath.Ext(input), ".xcf") {
		return layer.LoadXCF(input)
	}
	f, err := os.Open(input)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return layer.DecodePSD(f)
}

func loadComposite(input string) (*image.NRGBA, error) {
	if strings.EqualFold(filepath.Ext(input), ".xcf") {
		doc, err := layer.LoadXCF(input)
		if err != nil {
			return nil, err
		}
		return doc.Composite(), nil
	}
	f, err := os.Open(input)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return layer.DecodePSDComposite(f)
}
