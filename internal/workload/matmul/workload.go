// Package matmul is the CPU-bound benchmark workload: each job multiplies
// two freshly generated matrices.
package matmul

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"

	"github.com/aryankumar/parbench/internal/executor"
	"github.com/aryankumar/parbench/internal/procpool"
	"github.com/aryankumar/parbench/internal/util"
)

// Name identifies the workload to worker processes
const Name = "matmul"

const (
	DefaultRows  = 1000
	DefaultInner = 100
	DefaultCols  = 1000
)

// Params sets the shape of A (Rows×Inner) and B (Inner×Cols).
// Job id and Seed together determine the matrices, so a worker process
// regenerates exactly what the driver would have.
type Params struct {
	Rows  int    `json:"rows"`
	Inner int    `json:"inner"`
	Cols  int    `json:"cols"`
	Seed  uint64 `json:"seed"`
}

// DefaultParams returns the stock 1000×100 by 100×1000 job
func DefaultParams() Params {
	return Params{Rows: DefaultRows, Inner: DefaultInner, Cols: DefaultCols}
}

// Validate checks the params
func (p Params) Validate() error {
	if p.Rows < 1 {
		return &util.ValidationError{Field: "rows", Value: p.Rows, Message: "must be at least 1"}
	}
	if p.Inner < 1 {
		return &util.ValidationError{Field: "inner", Value: p.Inner, Message: "must be at least 1"}
	}
	if p.Cols < 1 {
		return &util.ValidationError{Field: "cols", Value: p.Cols, Message: "must be at least 1"}
	}
	return nil
}

// Product summarizes a job's result matrix
type Product struct {
	Rows     int     `json:"rows"`
	Cols     int     `json:"cols"`
	Checksum float64 `json:"checksum"`
}

func (p Product) String() string {
	return fmt.Sprintf("%dx%d checksum=%.6g", p.Rows, p.Cols, p.Checksum)
}

// Operands generates the input matrices for job id
func Operands(p Params, id int) (a, b *Matrix) {
	rng := rand.New(rand.NewPCG(p.Seed, uint64(id)))
	a = Random(p.Rows, p.Inner, rng)
	b = Random(p.Inner, p.Cols, rng)
	return a, b
}

// Func returns the job function
func Func(p Params) executor.WorkFunc[Product] {
	return func(ctx context.Context, id int) (Product, error) {
		a, b := Operands(p, id)
		c, err := a.Multiply(b)
		if err != nil {
			return Product{}, err
		}
		return Product{Rows: c.Rows, Cols: c.Cols, Checksum: c.Checksum()}, nil
	}
}

// New builds the named workload so it can also run in worker processes
func New(p Params) (executor.Workload[Product], error) {
	if err := p.Validate(); err != nil {
		return executor.Workload[Product]{}, err
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return executor.Workload[Product]{}, fmt.Errorf("encode matmul params: %w", err)
	}
	return executor.Workload[Product]{Name: Name, Params: raw, Func: Func(p)}, nil
}

// Register adds the workload to a worker registry
func Register(reg *procpool.Registry) {
	reg.Register(Name, func(raw json.RawMessage) (procpool.Func, error) {
		var p Params
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode matmul params: %w", err)
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		return procpool.Erase(Func(p)), nil
	})
}

// Line renders a job result
func Line(r executor.Result[Product]) string {
	if r.Error != nil {
		return fmt.Sprintf("Job %2d failed: %v", r.TaskID, r.Error)
	}
	return fmt.Sprintf("Job %2d result: %s", r.TaskID, r.Value)
}
