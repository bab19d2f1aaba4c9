package output

import (
	"fmt"
	"time"

	"github.com/aryankumar/parbench/internal/executor"
)

// Report describes one benchmark run
type Report struct {
	RunID    string
	Workload string
	Mode     string
	Tasks    int
	Workers  int
	Elapsed  time.Duration
	Summary  executor.Summary
	Results  []Row
}

// Row is one task outcome in a report
type Row struct {
	TaskID   int
	Value    string
	Error    string
	Duration time.Duration
}

// Failed reports whether the task failed
func (r Row) Failed() bool {
	return r.Error != ""
}

// Status is the human-readable outcome
func (r Row) Status() string {
	if r.Failed() {
		return "Failed"
	}
	return "Success"
}

// NewRows converts results to report rows, rendering values with render.
// A nil render uses fmt's default formatting.
func NewRows[T any](results []executor.Result[T], render func(T) string) []Row {
	if render == nil {
		render = func(v T) string { return fmt.Sprint(v) }
	}

	rows := make([]Row, len(results))
	for i, r := range results {
		row := Row{TaskID: r.TaskID, Duration: r.Duration}
		if r.Error != nil {
			row.Error = r.Error.Error()
		} else {
			row.Value = render(r.Value)
		}
		rows[i] = row
	}
	return rows
}

// document is the structured (json/yaml) shape of a report, with
// durations rendered as strings
type document struct {
	RunID    string        `json:"runId" yaml:"runId"`
	Workload string        `json:"workload" yaml:"workload"`
	Mode     string        `json:"mode" yaml:"mode"`
	Tasks    int           `json:"tasks" yaml:"tasks"`
	Workers  int           `json:"workers" yaml:"workers"`
	Elapsed  string        `json:"elapsed" yaml:"elapsed"`
	Summary  summaryDoc    `json:"summary" yaml:"summary"`
	Results  []rowDocument `json:"results" yaml:"results"`
}

type summaryDoc struct {
	Total       int    `json:"total" yaml:"total"`
	Successful  int    `json:"successful" yaml:"successful"`
	Failed      int    `json:"failed" yaml:"failed"`
	AvgDuration string `json:"avgDuration" yaml:"avgDuration"`
	MinDuration string `json:"minDuration" yaml:"minDuration"`
	MaxDuration string `json:"maxDuration" yaml:"maxDuration"`
	P50         string `json:"p50" yaml:"p50"`
	P90         string `json:"p90" yaml:"p90"`
	P99         string `json:"p99" yaml:"p99"`
}

type rowDocument struct {
	Task     int    `json:"task" yaml:"task"`
	Status   string `json:"status" yaml:"status"`
	Value    string `json:"value,omitempty" yaml:"value,omitempty"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
	Duration string `json:"duration" yaml:"duration"`
}

func newDocument(r *Report) document {
	doc := document{
		RunID:    r.RunID,
		Workload: r.Workload,
		Mode:     r.Mode,
		Tasks:    r.Tasks,
		Workers:  r.Workers,
		Elapsed:  r.Elapsed.String(),
		Summary: summaryDoc{
			Total:       r.Summary.Total,
			Successful:  r.Summary.Successful,
			Failed:      r.Summary.Failed,
			AvgDuration: r.Summary.AvgDuration.String(),
			MinDuration: r.Summary.MinDuration.String(),
			MaxDuration: r.Summary.MaxDuration.String(),
			P50:         r.Summary.P50.String(),
			P90:         r.Summary.P90.String(),
			P99:         r.Summary.P99.String(),
		},
		Results: make([]rowDocument, len(r.Results)),
	}

	for i, row := range r.Results {
		status := "success"
		if row.Failed() {
			status = "failed"
		}
		doc.Results[i] = rowDocument{
			Task:     row.TaskID,
			Status:   status,
			Value:    row.Value,
			Error:    row.Error,
			Duration: row.Duration.String(),
		}
	}
	return doc
}
