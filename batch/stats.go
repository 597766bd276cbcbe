package batch

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"mockupkit"
)

// Summary aggregates the outcome of a batch run.
type Summary struct {
	Total, OK, Skipped, Errors int

	// Duration statistics over successful items only.
	Mean, P50, P95 time.Duration
}

// Summarize tallies results and computes duration statistics for the
// items that completed successfully.
func Summarize(results []Result, durations []time.Duration) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case StatusOK:
			s.OK++
		case StatusSkipped:
			s.Skipped++
		default:
			s.Errors++
		}
	}
	if len(durations) == 0 {
		return s
	}

	secs := make([]float64, len(durations))
	for i, d := range durations {
		secs[i] = d.Seconds()
	}
	sort.Float64s(secs)
	s.Mean = time.Duration(stat.Mean(secs, nil) * float64(time.Second))
	s.P50 = time.Duration(stat.Quantile(0.50, stat.Empirical, secs, nil) * float64(time.Second))
	s.P95 = time.Duration(stat.Quantile(0.95, stat.Empirical, secs, nil) * float64(time.Second))
	return s
}

func logSummary(results []Result, durations []time.Duration) {
	s := Summarize(results, durations)
	attrs := []any{
		"total", s.Total,
		"ok", s.OK,
		"skipped", s.Skipped,
		"errors", s.Errors,
	}
	// Duration stats only exist when something actually ran.
	if len(durations) > 0 {
		attrs = append(attrs,
			"mean", s.Mean,
			"p50", s.P50,
			"p95", s.P95)
	}
	mockupkit.Logger().Info("batch finished", attrs...)
}
