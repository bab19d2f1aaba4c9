package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aryankumar/parbench/internal/harness"
	"github.com/aryankumar/parbench/internal/util"
)

// articleServer serves "<title>Post N</title>" for every id except missing,
// which answers 404
func articleServer(t *testing.T, missing int) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/")
		if id == fmt.Sprint(missing) {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, "<html><head><title>Post %s</title></head></html>", id)
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/{id}"
}

func TestTitlesCommand(t *testing.T) {
	baseURL := articleServer(t, 3)

	for _, mode := range []string{"single", "threads", "pool"} {
		t.Run(mode, func(t *testing.T) {
			out, err := executeCommand(t, "titles",
				"--mode", mode,
				"--n_tasks", "4",
				"--pool_size", "2",
				"--base-url", baseURL,
				"--attempts", "1",
				"--no-color")
			if err != nil {
				t.Fatalf("unexpected error: %v\n%s", err, out)
			}

			want := []string{
				"Article  1 title: Post 1",
				"Article  2 title: Post 2",
				"Article  3 title: NOT FOUND",
				"Article  4 title: Post 4",
			}
			last := -1
			for _, line := range want {
				idx := strings.Index(out, line)
				if idx < 0 {
					t.Fatalf("output missing %q:\n%s", line, out)
				}
				if idx < last {
					t.Errorf("%q printed out of task order", line)
				}
				last = idx
			}
			if !strings.Contains(out, "p99") {
				t.Errorf("table report should include percentiles:\n%s", out)
			}
		})
	}
}

func TestTitlesCommandJSON(t *testing.T) {
	out, err := executeCommand(t, "titles",
		"--mode", "pool",
		"--n_tasks", "3",
		"--base-url", articleServer(t, 2),
		"--attempts", "1",
		"-o", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}

	var doc struct {
		RunID   string `json:"runId"`
		Mode    string `json:"mode"`
		Tasks   int    `json:"tasks"`
		Results []struct {
			Task   int    `json:"task"`
			Status string `json:"status"`
			Value  string `json:"value"`
		} `json:"results"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not a JSON report: %v\n%s", err, out)
	}

	if doc.RunID == "" {
		t.Error("report should carry a run id")
	}
	if doc.Mode != "pool" || doc.Tasks != 3 {
		t.Errorf("got mode %q tasks %d", doc.Mode, doc.Tasks)
	}
	if len(doc.Results) != 3 {
		t.Fatalf("got %d results, want 3", len(doc.Results))
	}
	for i, r := range doc.Results {
		if r.Task != i+1 {
			t.Errorf("result %d has task %d", i, r.Task)
		}
	}
	if doc.Results[0].Value != "Post 1" || doc.Results[1].Status != "failed" {
		t.Errorf("unexpected results: %+v", doc.Results)
	}
}

func TestTitlesCommandRejectsBadInput(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantField string
	}{
		{"zero tasks", []string{"--n_tasks", "0"}, "n_tasks"},
		{"negative tasks", []string{"--n_tasks", "-2"}, "n_tasks"},
		{"zero pool", []string{"--pool_size", "0"}, "pool_size"},
		{"unknown mode", []string{"--mode", "fibers"}, "mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(t, append([]string{"titles"}, tt.args...)...)
			if err == nil {
				t.Fatal("expected an error")
			}

			var ve *util.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("got field %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestMatmulCommandThreads(t *testing.T) {
	out, err := executeCommand(t, "matmul",
		"--njobs", "3",
		"--mode", "thread",
		"--rows", "4", "--inner", "3", "--cols", "5",
		"--seed", "11",
		"-o", "text")
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}

	if got := strings.Count(out, finishedMarker); got != 3 {
		t.Errorf("got %d %q markers, want 3:\n%s", got, finishedMarker, out)
	}
	for id := 1; id <= 3; id++ {
		line := fmt.Sprintf("Job %2d result: 4x5 checksum=", id)
		if !strings.Contains(out, line) {
			t.Errorf("output missing %q:\n%s", line, out)
		}
	}

	lastMarker := strings.LastIndex(out, finishedMarker)
	firstResult := strings.Index(out, "Job  1 result")
	if lastMarker > firstResult {
		t.Error("result lines should follow every completion marker")
	}
}

func TestMatmulCommandSingleRun(t *testing.T) {
	out, err := executeCommand(t, "matmul",
		"--rows", "2", "--inner", "2", "--cols", "2",
		"--seed", "5",
		"-o", "text")
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}

	if !strings.Contains(out, "Job  1 result: 2x2") {
		t.Errorf("expected one job result:\n%s", out)
	}
	if strings.Contains(out, "Job  2") {
		t.Errorf("single run should execute exactly one job:\n%s", out)
	}
}

func TestMatmulCommandStructuredOutputHasNoMarkers(t *testing.T) {
	out, err := executeCommand(t, "matmul",
		"--njobs", "2",
		"--mode", "thread",
		"--rows", "2", "--inner", "2", "--cols", "2",
		"-o", "yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}

	if strings.Contains(out, finishedMarker) {
		t.Errorf("structured output should not contain progress markers:\n%s", out)
	}
	if !strings.Contains(out, "workload: matmul") {
		t.Errorf("expected a YAML report:\n%s", out)
	}
}

func TestMatmulCommandRejectsUnknownMode(t *testing.T) {
	_, err := executeCommand(t, "matmul", "--njobs", "2", "--mode", "fibers")

	var ve *util.ValidationError
	if !errors.As(err, &ve) || ve.Field != "mode" {
		t.Fatalf("expected mode ValidationError, got %v", err)
	}
	if !strings.Contains(ve.Message, "thread, process") || strings.Contains(ve.Message, "process_pool") {
		t.Errorf("error should list the matmul modes, got %q", ve.Message)
	}
}

func TestParseMatmulMode(t *testing.T) {
	tests := []struct {
		in   string
		want harness.Mode
	}{
		{"thread", harness.ModeThreads},
		{"process", harness.ModeProcessPool},
		{"pool", harness.ModePool},
	}
	for _, tt := range tests {
		got, err := parseMatmulMode(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("parseMatmulMode(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestMatmulCommandRejectsZeroJobs(t *testing.T) {
	_, err := executeCommand(t, "matmul", "--njobs", "0")

	var ve *util.ValidationError
	if !errors.As(err, &ve) || ve.Field != "njobs" {
		t.Fatalf("expected njobs ValidationError, got %v", err)
	}
}

func TestConfigViewUsesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	if err := os.WriteFile(path, []byte("titles:\n  n_tasks: 12\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(t, "config", "view", "--config", path, "-o", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var cfg struct {
		Titles struct {
			Tasks int `json:"n_tasks"`
		} `json:"titles"`
	}
	if err := json.Unmarshal([]byte(out), &cfg); err != nil {
		t.Fatalf("config view -o json is not JSON: %v\n%s", err, out)
	}
	if cfg.Titles.Tasks != 12 {
		t.Errorf("got n_tasks %d, want 12", cfg.Titles.Tasks)
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")

	out, err := executeCommand(t, "config", "init", "--config", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "configuration written") {
		t.Errorf("unexpected output %q", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(data), "n_tasks") {
		t.Errorf("written config should hold defaults:\n%s", data)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "parbench") {
		t.Errorf("unexpected version output %q", out)
	}

	out, err = executeCommand(t, "version", "-o", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var info map[string]string
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("version -o json is not JSON: %v", err)
	}
	if info["version"] == "" {
		t.Error("version field missing")
	}
}

func TestServeCommandBadAddress(t *testing.T) {
	if _, err := executeCommand(t, "serve", "--addr", "127.0.0.1:-1"); err == nil {
		t.Fatal("expected a listen error for an invalid port")
	}
}
