// Package output renders benchmark run reports.
//
// Four formats are supported:
//
//   - table: a borderless key/value summary printed after the result lines;
//     with WithWide(true) a per-task table (status, duration, value) comes first
//   - json and yaml: the whole report, every task included, replacing the
//     result lines so the output is machine-readable on its own
//   - text: nothing beyond the result lines
//
// # Basic Usage
//
//	report := &output.Report{
//	    RunID:    runID,
//	    Workload: "titles",
//	    Mode:     "pool",
//	    Summary:  executor.Summarize(results),
//	    Results:  output.NewRows(results, nil),
//	}
//	output.NewFormatter(output.FormatTable, output.WithWide(true)).FormatReport(os.Stdout, report)
//
// # Color Support
//
// Colors are enabled only for TTY writers and can be turned off with
// WithNoColor(true). In the wide table, tasks slower than the run's p90
// have their duration highlighted.
package output
