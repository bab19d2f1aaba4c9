package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestJSONFormatter_FormatReport(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONFormatter().FormatReport(&buf, sampleReport()); err != nil {
		t.Fatalf("FormatReport failed: %v", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}

	if doc["runId"] != "run-1" || doc["mode"] != "pool" || doc["workload"] != "titles" {
		t.Errorf("unexpected header fields: %v", doc)
	}
	if doc["elapsed"] != "150ms" {
		t.Errorf("elapsed = %v, want 150ms", doc["elapsed"])
	}

	summary, ok := doc["summary"].(map[string]interface{})
	if !ok {
		t.Fatalf("summary missing: %v", doc)
	}
	if summary["successful"] != float64(1) || summary["failed"] != float64(1) {
		t.Errorf("unexpected summary: %v", summary)
	}

	results, ok := doc["results"].([]interface{})
	if !ok || len(results) != 2 {
		t.Fatalf("expected 2 results, got %v", doc["results"])
	}
	first := results[0].(map[string]interface{})
	if first["task"] != float64(1) || first["status"] != "success" || first["value"] != "First article" {
		t.Errorf("unexpected first result: %v", first)
	}
	if _, has := first["error"]; has {
		t.Error("successful result should omit error")
	}
	second := results[1].(map[string]interface{})
	if second["status"] != "failed" || second["error"] != "article 2: not found" {
		t.Errorf("unexpected second result: %v", second)
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONFormatter().Format(&buf, map[string]int{"n": 1}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "{\n  \"n\": 1\n}\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestYAMLFormatter_FormatReport(t *testing.T) {
	var buf bytes.Buffer
	if err := NewYAMLFormatter().FormatReport(&buf, sampleReport()); err != nil {
		t.Fatalf("FormatReport failed: %v", err)
	}

	var doc document
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid YAML: %v\n%s", err, buf.String())
	}

	if doc.RunID != "run-1" || doc.Tasks != 2 || doc.Workers != 2 {
		t.Errorf("unexpected header fields: %+v", doc)
	}
	if doc.Summary.Total != 2 || doc.Summary.Failed != 1 {
		t.Errorf("unexpected summary: %+v", doc.Summary)
	}
	if len(doc.Results) != 2 || doc.Results[1].Status != "failed" {
		t.Errorf("unexpected results: %+v", doc.Results)
	}
	if !strings.Contains(buf.String(), "  p99: ") {
		t.Errorf("expected two-space indent:\n%s", buf.String())
	}
}


func TestDocumentFormatter_NilReport(t *testing.T) {
	for _, f := range []*DocumentFormatter{NewJSONFormatter(), NewYAMLFormatter()} {
		err := f.FormatReport(&bytes.Buffer{}, nil)
		if !errors.Is(err, errNilReport) {
			t.Errorf("%s: got %v, want errNilReport", f.format, err)
		}
	}
}

func TestTextFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewTextFormatter()

	if err := f.FormatReport(&buf, sampleReport()); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("text report should be empty, got %q", buf.String())
	}

	if err := f.Format(&buf, "hello"); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "hello\n" {
		t.Errorf("got %q", buf.String())
	}
}
