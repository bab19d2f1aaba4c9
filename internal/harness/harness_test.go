package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aryankumar/parbench/internal/executor"
	"github.com/aryankumar/parbench/internal/procpool"
	"github.com/aryankumar/parbench/internal/util"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"single", ModeSingle, false},
		{"threads", ModeThreads, false},
		{"thread", ModeThreads, false},
		{"pool", ModePool, false},
		{"process_pool", ModeProcessPool, false},
		{"process", ModeProcessPool, false},
		{" POOL ", ModePool, false},
		{"fibers", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				var ve *util.ValidationError
				if !errors.As(err, &ve) || ve.Field != "mode" {
					t.Fatalf("expected mode ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMode_Workers(t *testing.T) {
	tests := []struct {
		mode     Mode
		n, pool  int
		expected int
	}{
		{ModeSingle, 20, 10, 1},
		{ModeThreads, 20, 10, 20},
		{ModePool, 20, 10, 10},
		{ModePool, 3, 10, 3},
		{ModeProcessPool, 5, 2, 2},
	}
	for _, tt := range tests {
		if got := tt.mode.Workers(tt.n, tt.pool); got != tt.expected {
			t.Errorf("%s.Workers(%d, %d) = %d, want %d", tt.mode, tt.n, tt.pool, got, tt.expected)
		}
	}
}

func TestNewStrategy(t *testing.T) {
	cfg := StrategyConfig{PoolSize: 2, Worker: procpool.Command{Path: "parbench"}, Logger: quietLogger()}

	for _, mode := range Modes {
		t.Run(string(mode), func(t *testing.T) {
			s, err := NewStrategy[int](mode, cfg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.Name() != string(mode) {
				t.Errorf("strategy name %q, want %q", s.Name(), mode)
			}
		})
	}

	if _, err := NewStrategy[int](ModePool, StrategyConfig{PoolSize: 0}); !errors.Is(err, util.ErrInvalidConfig) {
		t.Errorf("expected invalid pool size error, got %v", err)
	}
	if _, err := NewStrategy[int]("bogus", cfg); !errors.Is(err, util.ErrInvalidConfig) {
		t.Errorf("expected unsupported mode error, got %v", err)
	}
}

func doubling() executor.Workload[int] {
	return executor.Workload[int]{
		Name: "double",
		Func: func(ctx context.Context, id int) (int, error) {
			if id%4 == 0 {
				return 0, util.ErrNotFound
			}
			return id * 2, nil
		},
	}
}

func TestExecute(t *testing.T) {
	for _, mode := range []Mode{ModeSingle, ModeThreads, ModePool} {
		t.Run(string(mode), func(t *testing.T) {
			outcome, err := Execute(context.Background(), Run[int]{
				Mode:     mode,
				Tasks:    8,
				Workload: doubling(),
				Strategy: StrategyConfig{PoolSize: 3, Logger: quietLogger()},
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(outcome.Results) != 8 {
				t.Fatalf("got %d results, want 8", len(outcome.Results))
			}
			for i, r := range outcome.Results {
				id := i + 1
				if r.TaskID != id {
					t.Errorf("slot %d holds task %d", i, r.TaskID)
				}
				if id%4 == 0 {
					if !util.IsNotFound(r.Error) {
						t.Errorf("task %d: expected not found, got %v", id, r.Error)
					}
				} else if r.Value != id*2 {
					t.Errorf("task %d: got %d, want %d", id, r.Value, id*2)
				}
			}

			report := outcome.Report
			if report.RunID == "" || report.Mode != string(mode) || report.Workload != "double" {
				t.Errorf("unexpected report header %+v", report)
			}
			if report.Summary.Successful != 6 || report.Summary.Failed != 2 {
				t.Errorf("unexpected summary %+v", report.Summary)
			}
			if len(report.Results) != 8 || report.Results[0].Value != "2" {
				t.Errorf("unexpected report rows %+v", report.Results)
			}
		})
	}
}

func TestExecute_RunIDsAreUnique(t *testing.T) {
	run := Run[int]{Mode: ModeSingle, Tasks: 1, Workload: doubling(), Strategy: StrategyConfig{Logger: quietLogger()}}
	a, err := Execute(context.Background(), run)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Execute(context.Background(), run)
	if err != nil {
		t.Fatal(err)
	}
	if a.Report.RunID == b.Report.RunID {
		t.Error("each run should get its own id")
	}
}

func TestExecute_InvalidConfig(t *testing.T) {
	_, err := Execute(context.Background(), Run[int]{
		Mode:     ModePool,
		Tasks:    0,
		Workload: doubling(),
		Strategy: StrategyConfig{PoolSize: 2, Logger: quietLogger()},
	})
	if !errors.Is(err, util.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestExecute_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome, err := Execute(ctx, Run[int]{
		Mode:     ModePool,
		Tasks:    5,
		Workload: doubling(),
		Strategy: StrategyConfig{PoolSize: 2, Logger: quietLogger()},
	})
	if !errors.Is(err, util.ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if outcome == nil || len(outcome.Results) != 5 {
		t.Fatal("outcome should still hold every slot")
	}
	for _, r := range outcome.Results {
		if r.Error == nil {
			t.Errorf("task %d should not have run", r.TaskID)
		}
	}
}

func TestExecute_Timeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	slow := executor.Workload[int]{
		Name: "slow",
		Func: func(ctx context.Context, id int) (int, error) {
			select {
			case <-time.After(time.Second):
				return id, nil
			case <-ctx.Done():
				return 0, ctx.Err()
			}
		},
	}

	_, err := Execute(ctx, Run[int]{Mode: ModeSingle, Tasks: 3, Workload: slow, Strategy: StrategyConfig{Logger: quietLogger()}})
	if !errors.Is(err, util.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestWriteLines(t *testing.T) {
	results := []executor.Result[int]{
		{TaskID: 1, Value: 10},
		{TaskID: 2, Error: util.ErrNotFound},
	}

	var buf bytes.Buffer
	err := WriteLines(&buf, results, func(r executor.Result[int]) string {
		if r.Error != nil {
			return fmt.Sprintf("%d: %s", r.TaskID, util.NotFoundSentinel)
		}
		return fmt.Sprintf("%d: %d", r.TaskID, r.Value)
	})
	if err != nil {
		t.Fatal(err)
	}

	if want := "1: 10\n2: NOT FOUND\n"; buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestExecute_RenderShapesReportValues(t *testing.T) {
	outcome, err := Execute(context.Background(), Run[int]{
		Mode:     ModeSingle,
		Tasks:    3,
		Workload: doubling(),
		Strategy: StrategyConfig{Logger: quietLogger()},
		Render:   func(v int) string { return fmt.Sprintf("value=%d", v) },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := outcome.Report.Results[0].Value; got != "value=2" {
		t.Errorf("report value = %q, want value=2", got)
	}
	if outcome.Results[0].Value != 2 {
		t.Error("Render must not change the raw results")
	}
}
