package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestTableFormatter_FormatReport(t *testing.T) {
	tests := []struct {
		name        string
		opts        *Options
		contains    []string
		notContains []string
	}{
		{
			name:        "summary only",
			opts:        &Options{NoColor: true},
			contains:    []string{"FIELD", "run-1", "titles", "pool", "Successful", "Failed", "p50/p90/p99"},
			notContains: []string{"First article", "TASK"},
		},
		{
			name:     "wide adds task rows",
			opts:     &Options{NoColor: true, Wide: true},
			contains: []string{"TASK", "STATUS", "First article", "Success", "article 2: not found", "Failed", "run-1"},
		},
		{
			name:        "no headers",
			opts:        &Options{NoColor: true, NoHeaders: true},
			contains:    []string{"run-1"},
			notContains: []string{"FIELD", "VALUE"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewTableFormatter(tt.opts).FormatReport(&buf, sampleReport()); err != nil {
				t.Fatalf("FormatReport failed: %v", err)
			}

			out := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
			for _, unwanted := range tt.notContains {
				if strings.Contains(out, unwanted) {
					t.Errorf("output should not contain %q:\n%s", unwanted, out)
				}
			}
		})
	}
}

func TestTableFormatter_TruncatesLongValues(t *testing.T) {
	report := sampleReport()
	report.Results[0].Value = strings.Repeat("x", 80)

	var buf bytes.Buffer
	if err := NewTableFormatter(&Options{NoColor: true, Wide: true}).FormatReport(&buf, report); err != nil {
		t.Fatal(err)
	}

	if strings.Contains(buf.String(), strings.Repeat("x", 80)) {
		t.Error("long value was not truncated")
	}
	if !strings.Contains(buf.String(), strings.Repeat("x", maxValueWidth-3)+"...") {
		t.Errorf("expected truncated value, got:\n%s", buf.String())
	}
}

func TestTableFormatter_EmptyReport(t *testing.T) {
	var buf bytes.Buffer
	err := NewTableFormatter(&Options{NoColor: true, Wide: true}).FormatReport(&buf, &Report{RunID: "empty"})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "p50") {
		t.Error("latency rows need at least one task")
	}
}

func TestTableFormatter_FormatMap(t *testing.T) {
	var buf bytes.Buffer
	err := NewTableFormatter(&Options{}).Format(&buf, map[string]interface{}{"b": 2, "a": 1})
	if err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if strings.Index(out, "a") > strings.Index(out, "b") {
		t.Errorf("keys should be sorted:\n%s", out)
	}
}

func TestTableFormatter_FormatFallback(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTableFormatter(nil).Format(&buf, "plain"); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "plain\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestTableFormatter_NilReport(t *testing.T) {
	if err := NewTableFormatter(nil).FormatReport(&bytes.Buffer{}, nil); err == nil {
		t.Error("expected an error for a nil report")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"much longer text", 10, "much lo..."},
		{"ееееееееееее", 6, "еее..."},
	}

	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
