package output

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
)

// maxValueWidth truncates values in the wide per-task table
const maxValueWidth = 50

// TableFormatter formats output as borderless tables
type TableFormatter struct {
	options *Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(opts *Options) *TableFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &TableFormatter{
		options: opts,
	}
}

// Format outputs a single data item as a table
func (f *TableFormatter) Format(w io.Writer, data interface{}) error {
	table := f.createTable(w)

	switch v := data.(type) {
	case map[string]interface{}:
		return f.formatMap(table, v)
	default:
		fmt.Fprintln(w, v)
		return nil
	}
}

// FormatReport outputs the run summary, preceded in wide mode by one row per
// task. Task durations above the run's p90 are highlighted.
func (f *TableFormatter) FormatReport(w io.Writer, report *Report) error {
	if report == nil {
		return errNilReport
	}
	p := newPainter(w, f.options.NoColor)
	s := report.Summary

	if f.options.Wide && len(report.Results) > 0 {
		f.taskTable(w, p, report.Results, s.P90)
		fmt.Fprintln(w)
	}

	table := f.createTable(w)
	if !f.options.NoHeaders {
		table.SetHeader(p.headers("FIELD", "VALUE"))
	}

	rows := [][]string{
		{"Run", report.RunID},
		{"Workload", report.Workload},
		{"Mode", p.paint(roleMode, "%s", report.Mode)},
		{"Tasks", strconv.Itoa(report.Tasks)},
		{"Workers", strconv.Itoa(report.Workers)},
		{"Successful", p.status(false, "%d", s.Successful)},
		{"Failed", p.status(s.Failed > 0, "%d", s.Failed)},
		{"Elapsed", p.paint(roleTiming, "%s", round(report.Elapsed))},
	}
	if s.Total > 0 {
		rows = append(rows,
			[]string{"Task avg", p.paint(roleTiming, "%s", round(s.AvgDuration))},
			[]string{"Task min/max", p.paint(roleTiming, "%s / %s", round(s.MinDuration), round(s.MaxDuration))},
			[]string{"Task p50/p90/p99", p.paint(roleTiming, "%s / %s / %s", round(s.P50), round(s.P90), round(s.P99))},
		)
	}
	table.AppendBulk(rows)
	table.Render()

	return nil
}

func (f *TableFormatter) taskTable(w io.Writer, p painter, rows []Row, p90 time.Duration) {
	table := f.createTable(w)
	if !f.options.NoHeaders {
		table.SetHeader(p.headers("TASK", "STATUS", "DURATION", "VALUE"))
	}

	for _, r := range rows {
		value := r.Value
		if r.Failed() {
			value = r.Error
		}

		timing := roleTiming
		if len(rows) > 1 && r.Duration > p90 {
			timing = roleSlow
		}

		table.Append([]string{
			strconv.Itoa(r.TaskID),
			p.status(r.Failed(), "%s", r.Status()),
			p.paint(timing, "%s", round(r.Duration)),
			truncate(value, maxValueWidth),
		})
	}

	table.Render()
}

// truncate shortens s to at most width runes
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

// formatMap formats a map as a two-column table sorted by key
func (f *TableFormatter) formatMap(table *tablewriter.Table, data map[string]interface{}) error {
	if !f.options.NoHeaders {
		table.SetHeader([]string{"KEY", "VALUE"})
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		table.Append([]string{k, fmt.Sprintf("%v", data[k])})
	}

	table.Render()
	return nil
}

// createTable creates a borderless, tab-padded table
func (f *TableFormatter) createTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	return table
}

func round(d time.Duration) time.Duration {
	switch {
	case d >= time.Second:
		return d.Round(time.Millisecond)
	case d >= time.Millisecond:
		return d.Round(10 * time.Microsecond)
	default:
		return d.Round(time.Microsecond)
	}
}
