package output

import (
	"encoding/json"
	"errors"
	"io"

	"gopkg.in/yaml.v3"
)

var errNilReport = errors.New("no report to render")

// DocumentFormatter writes values as a single JSON or YAML document.
// Reports are flattened first so durations read as "1.5ms" rather than
// nanosecond integers.
type DocumentFormatter struct {
	format Format
	encode func(w io.Writer, v interface{}) error
}

// NewJSONFormatter creates an indented JSON document formatter
func NewJSONFormatter() *DocumentFormatter {
	return &DocumentFormatter{format: FormatJSON, encode: encodeJSON}
}

// NewYAMLFormatter creates a YAML document formatter
func NewYAMLFormatter() *DocumentFormatter {
	return &DocumentFormatter{format: FormatYAML, encode: encodeYAML}
}

// Format encodes data as-is
func (f *DocumentFormatter) Format(w io.Writer, data interface{}) error {
	return f.encode(w, data)
}

// FormatReport encodes the report, every task included
func (f *DocumentFormatter) FormatReport(w io.Writer, report *Report) error {
	if report == nil {
		return errNilReport
	}
	return f.encode(w, newDocument(report))
}

func encodeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func encodeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
