package output

import (
	"io"
)

// Format represents the output format type
type Format string

const (
	// FormatTable outputs a summary table after the result lines
	FormatTable Format = "table"
	// FormatJSON outputs the whole report, results included, as JSON
	FormatJSON Format = "json"
	// FormatYAML outputs the whole report, results included, as YAML
	FormatYAML Format = "yaml"
	// FormatText prints only the result lines
	FormatText Format = "text"
)

// Structured reports whether the format replaces the plain result lines
func (f Format) Structured() bool {
	return f == FormatJSON || f == FormatYAML
}

// Formatter renders run reports and ad hoc values such as the effective
// configuration
type Formatter interface {
	Format(w io.Writer, data interface{}) error
	FormatReport(w io.Writer, report *Report) error
}

// Option is a functional option for configuring formatters
type Option func(*Options)

// Options holds configuration for the table formatter; the document and
// text formatters have nothing to configure
type Options struct {
	NoColor   bool
	NoHeaders bool
	// Wide adds a per-task table above the summary
	Wide bool
}

// WithNoColor disables color output
func WithNoColor(noColor bool) Option {
	return func(o *Options) {
		o.NoColor = noColor
	}
}

// WithNoHeaders disables table headers
func WithNoHeaders(noHeaders bool) Option {
	return func(o *Options) {
		o.NoHeaders = noHeaders
	}
}

// WithWide enables wide output
func WithWide(wide bool) Option {
	return func(o *Options) {
		o.Wide = wide
	}
}

// NewFormatter creates a new formatter based on the specified format.
// Unknown formats fall back to the table.
func NewFormatter(format Format, opts ...Option) Formatter {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	switch format {
	case FormatJSON:
		return NewJSONFormatter()
	case FormatYAML:
		return NewYAMLFormatter()
	case FormatText:
		return NewTextFormatter()
	default:
		return NewTableFormatter(options)
	}
}
