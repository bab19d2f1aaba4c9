package matmul

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aryankumar/parbench/internal/executor"
	"github.com/aryankumar/parbench/internal/procpool"
	"github.com/aryankumar/parbench/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func mustRows(t *testing.T, rows [][]float64) *Matrix {
	t.Helper()
	m, err := FromRows(rows)
	require.NoError(t, err)
	return m
}

func TestMultiply_IdentityLeavesMatrixUnchanged(t *testing.T) {
	m := mustRows(t, [][]float64{{1.5, -2}, {3, 4.25}})

	got, err := Identity(2).Multiply(m)
	require.NoError(t, err)
	assert.True(t, got.Equal(m), "I×M = %v, want %v", got.Data, m.Data)

	got, err = m.Multiply(Identity(2))
	require.NoError(t, err)
	assert.True(t, got.Equal(m))
}

func TestMultiply_ZeroMatrix(t *testing.T) {
	a := mustRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	got, err := a.Multiply(Zeros(3, 4))
	require.NoError(t, err)

	assert.Equal(t, 2, got.Rows)
	assert.Equal(t, 4, got.Cols)
	for _, v := range got.Data {
		assert.Zero(t, v)
	}
}

func TestMultiply_Known(t *testing.T) {
	a := mustRows(t, [][]float64{{1, 2}, {3, 4}})
	b := mustRows(t, [][]float64{{5, 6}, {7, 8}})
	want := mustRows(t, [][]float64{{19, 22}, {43, 50}})

	got, err := a.Multiply(b)
	require.NoError(t, err)
	assert.Equal(t, want.Data, got.Data)
	assert.Equal(t, 134.0, got.Checksum())
}

func TestMultiply_DimensionMismatch(t *testing.T) {
	_, err := Zeros(2, 3).Multiply(Zeros(2, 3))
	assert.Error(t, err)
}

func TestFromRows_Ragged(t *testing.T) {
	_, err := FromRows([][]float64{{1, 2}, {3}})
	assert.Error(t, err)
}

func TestMultiply_IdentityProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rows := rapid.IntRange(1, 6).Draw(t, "rows")
		cols := rapid.IntRange(1, 6).Draw(t, "cols")
		vals := rapid.SliceOfN(rapid.Float64Range(-1e6, 1e6), rows*cols, rows*cols).Draw(t, "vals")
		m := &Matrix{Rows: rows, Cols: cols, Data: vals}

		got, err := Identity(rows).Multiply(m)
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(m) {
			t.Fatalf("identity product changed matrix: %v -> %v", m.Data, got.Data)
		}
	})
}

func TestOperands_Deterministic(t *testing.T) {
	p := Params{Rows: 4, Inner: 3, Cols: 5, Seed: 42}

	a1, b1 := Operands(p, 1)
	a2, b2 := Operands(p, 1)
	assert.True(t, a1.Equal(a2))
	assert.True(t, b1.Equal(b2))

	a3, _ := Operands(p, 2)
	assert.False(t, a1.Equal(a3), "different jobs should get different matrices")
}

func TestFunc_Product(t *testing.T) {
	p := Params{Rows: 3, Inner: 2, Cols: 4, Seed: 7}
	got, err := Func(p)(context.Background(), 1)
	require.NoError(t, err)

	a, b := Operands(p, 1)
	c, err := a.Multiply(b)
	require.NoError(t, err)

	assert.Equal(t, Product{Rows: 3, Cols: 4, Checksum: c.Checksum()}, got)
}

func TestParams_Validate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())

	for _, p := range []Params{
		{Rows: 0, Inner: 1, Cols: 1},
		{Rows: 1, Inner: -1, Cols: 1},
		{Rows: 1, Inner: 1, Cols: 0},
	} {
		assert.ErrorIs(t, p.Validate(), util.ErrInvalidConfig)
	}
}

func TestRegister_MatchesInProcess(t *testing.T) {
	p := Params{Rows: 5, Inner: 3, Cols: 2, Seed: 99}
	w, err := New(p)
	require.NoError(t, err)

	reg := procpool.NewRegistry()
	Register(reg)
	fn, err := reg.Build(w.Name, w.Params)
	require.NoError(t, err)

	remote, err := fn(context.Background(), 3)
	require.NoError(t, err)
	local, err := w.Func(context.Background(), 3)
	require.NoError(t, err)

	// Values cross the process boundary as JSON
	raw, err := json.Marshal(remote)
	require.NoError(t, err)
	var decoded Product
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, local, decoded)
}

func BenchmarkMultiply(b *testing.B) {
	a, m := Operands(Params{Rows: 100, Inner: 50, Cols: 100, Seed: 1}, 1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := a.Multiply(m); err != nil {
			b.Fatal(err)
		}
	}
}

func TestLine(t *testing.T) {
	ok := executor.Result[Product]{TaskID: 2, Value: Product{Rows: 2, Cols: 3, Checksum: 1.5}}
	assert.Equal(t, "Job  2 result: 2x3 checksum=1.5", Line(ok))

	failed := executor.Result[Product]{TaskID: 4, Error: util.ErrWorkerCrashed}
	assert.Contains(t, Line(failed), "Job  4 failed:")
}
