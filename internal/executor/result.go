package executor

import (
	"fmt"
	"strings"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Result is the outcome of one task, stored in the sink slot for TaskID
type Result[T any] struct {
	// TaskID is the task this result belongs to (1-based)
	TaskID int

	// Value holds the work function's return value (zero if Error is set)
	Value T

	// Error marks the task as failed; it never propagates to sibling tasks
	Error error

	// Duration is how long the task took to execute
	Duration time.Duration
}

// Failed reports whether the result carries the failure sentinel
func (r Result[T]) Failed() bool {
	return r.Error != nil
}

// CountSuccessful returns the number of successful results (no error)
func CountSuccessful[T any](results []Result[T]) int {
	count := 0
	for _, r := range results {
		if r.Error == nil {
			count++
		}
	}
	return count
}

// CountFailed returns the number of failed results (has error)
func CountFailed[T any](results []Result[T]) int {
	return len(results) - CountSuccessful(results)
}

// FilterSuccessful returns only the successful results
func FilterSuccessful[T any](results []Result[T]) []Result[T] {
	filtered := make([]Result[T], 0, len(results))
	for _, r := range results {
		if r.Error == nil {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// FilterFailed returns only the failed results
func FilterFailed[T any](results []Result[T]) []Result[T] {
	filtered := make([]Result[T], 0, len(results))
	for _, r := range results {
		if r.Error != nil {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// GetErrors extracts all errors from results
func GetErrors[T any](results []Result[T]) []error {
	errs := make([]error, 0)
	for _, r := range results {
		if r.Error != nil {
			errs = append(errs, r.Error)
		}
	}
	return errs
}

// Summary provides a summary of execution results
type Summary struct {
	Total       int           `json:"total" yaml:"total"`
	Successful  int           `json:"successful" yaml:"successful"`
	Failed      int           `json:"failed" yaml:"failed"`
	AvgDuration time.Duration `json:"avgDuration" yaml:"avgDuration"`
	MaxDuration time.Duration `json:"maxDuration" yaml:"maxDuration"`
	MinDuration time.Duration `json:"minDuration" yaml:"minDuration"`
	P50         time.Duration `json:"p50" yaml:"p50"`
	P90         time.Duration `json:"p90" yaml:"p90"`
	P99         time.Duration `json:"p99" yaml:"p99"`
}

// Histogram bounds in microseconds: 1µs to one hour, three significant digits.
const (
	histogramMin     = 1
	histogramMax     = int64(time.Hour / time.Microsecond)
	histogramSigFigs = 3
)

// Summarize creates a summary of the results.
// Percentiles come from an HDR histogram at microsecond resolution.
func Summarize[T any](results []Result[T]) Summary {
	s := Summary{
		Total:      len(results),
		Successful: CountSuccessful(results),
	}
	s.Failed = s.Total - s.Successful

	if len(results) == 0 {
		return s
	}

	hist := hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs)
	var total time.Duration
	s.MinDuration = results[0].Duration
	for _, r := range results {
		total += r.Duration
		if r.Duration > s.MaxDuration {
			s.MaxDuration = r.Duration
		}
		if r.Duration < s.MinDuration {
			s.MinDuration = r.Duration
		}

		us := r.Duration.Microseconds()
		if us < histogramMin {
			us = histogramMin
		}
		if us > histogramMax {
			us = histogramMax
		}
		// Values are clamped into range above, so RecordValue cannot fail.
		_ = hist.RecordValue(us)
	}

	s.AvgDuration = total / time.Duration(len(results))
	s.P50 = time.Duration(hist.ValueAtQuantile(50)) * time.Microsecond
	s.P90 = time.Duration(hist.ValueAtQuantile(90)) * time.Microsecond
	s.P99 = time.Duration(hist.ValueAtQuantile(99)) * time.Microsecond

	return s
}

// String returns a human-readable string representation of the summary
func (s Summary) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Total: %d, ", s.Total))
	sb.WriteString(fmt.Sprintf("Successful: %d, ", s.Successful))
	sb.WriteString(fmt.Sprintf("Failed: %d", s.Failed))

	if s.Total > 0 {
		sb.WriteString(fmt.Sprintf(", Avg: %s", s.AvgDuration.Round(time.Millisecond)))
		sb.WriteString(fmt.Sprintf(", Max: %s", s.MaxDuration.Round(time.Millisecond)))
		sb.WriteString(fmt.Sprintf(", Min: %s", s.MinDuration.Round(time.Millisecond)))
		sb.WriteString(fmt.Sprintf(", p99: %s", s.P99.Round(time.Millisecond)))
	}

	return sb.String()
}

// HasErrors returns true if any results contain errors
func HasErrors[T any](results []Result[T]) bool {
	for _, r := range results {
		if r.Error != nil {
			return true
		}
	}
	return false
}

// SuccessRate returns the success rate as a percentage (0.0 to 100.0)
func SuccessRate[T any](results []Result[T]) float64 {
	if len(results) == 0 {
		return 0.0
	}
	return float64(CountSuccessful(results)) / float64(len(results)) * 100.0
}
