package batch

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func writePNG(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
}

func TestProcess_WritesSquareOutputs(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	writePNG(t, filepath.Join(inDir, "wide.png"), 40, 20, color.NRGBA{R: 255, A: 255})
	writePNG(t, filepath.Join(inDir, "tall.png"), 20, 40, color.NRGBA{G: 255, A: 255})

	inputs := Collect(inDir, true)
	if len(inputs) != 2 {
		t.Fatalf("expected 2 inputs, got %d", len(inputs))
	}

	opts := DefaultOptions()
	opts.TargetSize = 64
	opts.Workers = 2
	results := Process(context.Background(), inputs, outDir, opts, nil)

	for i, r := range results {
		if r.Status != StatusOK {
			t.Fatalf("input %d: expected ok, got %s (%s)", i, r.Status, r.Message)
		}
		if r.Input != inputs[i] {
			t.Fatalf("results out of input order: %q at %d", r.Input, i)
		}
		f, err := os.Open(r.Outputs[0])
		if err != nil {
			t.Fatalf("output missing: %v", err)
		}
		cfg, err := png.DecodeConfig(f)
		f.Close()
		if err != nil {
			t.Fatalf("output not a png: %v", err)
		}
		if cfg.Width != 64 || cfg.Height != 64 {
			t.Fatalf("expected 64x64 output, got %dx%d", cfg.Width, cfg.Height)
		}
	}
}

func TestProcess_BadInputDoesNotAbortBatch(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	writePNG(t, filepath.Join(inDir, "good.png"), 10, 10, color.NRGBA{B: 255, A: 255})
	if err := os.WriteFile(filepath.Join(inDir, "bad.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	inputs := Collect(inDir, true)
	results := Process(context.Background(), inputs, outDir, DefaultOptions(), nil)

	statuses := map[string]Status{}
	for _, r := range results {
		statuses[filepath.Base(r.Input)] = r.Status
	}
	if statuses["bad.png"] != StatusError {
		t.Fatalf("expected bad.png to error, got %s", statuses["bad.png"])
	}
	if statuses["good.png"] != StatusOK {
		t.Fatalf("expected good.png to succeed, got %s", statuses["good.png"])
	}
}

func TestProcess_SkipsExistingUnlessOverwrite(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	writePNG(t, filepath.Join(inDir, "item.png"), 10, 10, color.NRGBA{R: 255, A: 255})
	inputs := Collect(inDir, true)

	opts := DefaultOptions()
	first := Process(context.Background(), inputs, outDir, opts, nil)
	if first[0].Status != StatusOK {
		t.Fatalf("first run: expected ok, got %s", first[0].Status)
	}

	second := Process(context.Background(), inputs, outDir, opts, nil)
	if second[0].Status != StatusSkipped {
		t.Fatalf("second run: expected skipped, got %s", second[0].Status)
	}

	opts.Overwrite = true
	third := Process(context.Background(), inputs, outDir, opts, nil)
	if third[0].Status != StatusOK {
		t.Fatalf("overwrite run: expected ok, got %s", third[0].Status)
	}
}

func TestProcess_ProgressCallback(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		writePNG(t, filepath.Join(inDir, name), 8, 8, color.NRGBA{G: 255, A: 255})
	}
	inputs := Collect(inDir, true)

	var mu sync.Mutex
	var seen []int
	Process(context.Background(), inputs, outDir, DefaultOptions(), func(done, total int, r Result) {
		mu.Lock()
		seen = append(seen, done)
		mu.Unlock()
		if total != 3 {
			t.Errorf("expected total 3, got %d", total)
		}
	})
	if len(seen) != 3 {
		t.Fatalf("expected 3 progress calls, got %d", len(seen))
	}
}

func TestProcess_CanceledContextSkipsRemainder(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	for _, name := range []string{"a.png", "b.png"} {
		writePNG(t, filepath.Join(inDir, name), 8, 8, color.NRGBA{R: 255, A: 255})
	}
	inputs := Collect(inDir, true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := Process(ctx, inputs, outDir, DefaultOptions(), nil)
	for _, r := range results {
		if r.Status != StatusSkipped {
			t.Fatalf("expected %s skipped after cancel, got %s (%s)", r.Input, r.Status, r.Message)
		}
		if len(r.Outputs) != 0 {
			t.Fatalf("canceled input %s produced outputs %v", r.Input, r.Outputs)
		}
	}
	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatalf("read output dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no output files after pre-canceled run, found %d", len(entries))
	}
}

func TestProcess_UnsupportedInput(t *testing.T) {
	outDir := t.TempDir()
	results := Process(context.Background(), []string{"notes.txt"}, outDir, DefaultOptions(), nil)
	if results[0].Status != StatusError {
		t.Fatalf("expected error for unsupported input, got %s", results[0].Status)
	}
}

func TestCollect_NonRecursive(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writePNG(t, filepath.Join(dir, "top.png"), 4, 4, color.NRGBA{A: 255})
	writePNG(t, filepath.Join(sub, "deep.png"), 4, 4, color.NRGBA{A: 255})
	if err := os.WriteFile(filepath.Join(dir, "skip.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if got := Collect(dir, false); len(got) != 1 || filepath.Base(got[0]) != "top.png" {
		t.Fatalf("non-recursive collect: got %v", got)
	}
	if got := Collect(dir, true); len(got) != 2 {
		t.Fatalf("recursive collect: got %v", got)
	}
}

func TestOutputNaming(t *testing.T) {
	got := OutputPath("/out", "/in/shot.jpeg", 800)
	if filepath.Base(got) != "shot_800.png" {
		t.Fatalf("expected shot_800.png, got %s", got)
	}
	got = LayerOutputPath("/out", "/in/art.psd", "Group/Logo", 512)
	if filepath.Base(got) != "art__Group__Logo_512.png" {
		t.Fatalf("expected art__Group__Logo_512.png, got %s", got)
	}
}

func TestUniqueName(t *testing.T) {
	used := map[string]int{}
	if got := uniqueName(used, "Layer 1"); got != "Layer 1" {
		t.Fatalf("first use: got %q", got)
	}
	if got := uniqueName(used, "Layer 1"); got != "Layer 1_2" {
		t.Fatalf("second use: got %q", got)
	}
	if got := uniqueName(used, "Layer 1"); got != "Layer 1_3" {
		t.Fatalf("third use: got %q", got)
	}
}

func TestSummarize(t *testing.T) {
	results := []Result{
		{Status: StatusOK}, {Status: StatusOK}, {Status: StatusSkipped}, {Status: StatusError},
	}
	durations := []time.Duration{time.Second, 2 * time.Second, 3 * time.Second, 4 * time.Second}
	s := Summarize(results, durations)
	if s.Total != 4 || s.OK != 2 || s.Skipped != 1 || s.Errors != 1 {
		t.Fatalf("bad tallies: %+v", s)
	}
	if s.Mean != 2500*time.Millisecond {
		t.Fatalf("expected mean 2.5s, got %v", s.Mean)
	}
	if s.P50 != 2*time.Second {
		t.Fatalf("expected p50 2s, got %v", s.P50)
	}
	if s.P95 != 4*time.Second {
		t.Fatalf("expected p95 4s, got %v", s.P95)
	}
}

func TestSummarize_NoDurations(t *testing.T) {
	results := []Result{{Status: StatusSkipped}, {Status: StatusSkipped}}
	s := Summarize(results, nil)
	if s.Total != 2 || s.OK != 0 || s.Skipped != 2 || s.Errors != 0 {
		t.Fatalf("bad tallies: %+v", s)
	}
	if s.Mean != 0 || s.P50 != 0 || s.P95 != 0 {
		t.Fatalf("expected zero duration stats for a run with no successes, got %+v", s)
	}
}
