package output

import (
	"fmt"
	"io"
)

// TextFormatter leaves the plain result lines as the only output
type TextFormatter struct{}

// NewTextFormatter creates a new text formatter
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Format prints data with fmt's default formatting
func (f *TextFormatter) Format(w io.Writer, data interface{}) error {
	_, err := fmt.Fprintln(w, data)
	return err
}

// FormatReport writes nothing; the result lines are the report
func (f *TextFormatter) FormatReport(w io.Writer, report *Report) error {
	return nil
}
