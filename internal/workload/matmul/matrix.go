package matmul

import (
	"fmt"
	"math/rand/v2"
)

// Matrix is a dense row-major matrix of float64
type Matrix struct {
	Rows int
	Cols int
	Data []float64
}

// Zeros returns a rows×cols matrix of zeros
func Zeros(rows, cols int) *Matrix {
	return &Matrix{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// Identity returns the n×n identity matrix
func Identity(n int) *Matrix {
	m := Zeros(n, n)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// FromRows builds a matrix from nested slices; every row must have the same length
func FromRows(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 {
		return Zeros(0, 0), nil
	}
	cols := len(rows[0])
	m := Zeros(len(rows), cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d columns, want %d", i, len(row), cols)
		}
		copy(m.Data[i*cols:], row)
	}
	return m, nil
}

// Random fills a rows×cols matrix with values in [0, 1) drawn from rng
func Random(rows, cols int, rng *rand.Rand) *Matrix {
	m := Zeros(rows, cols)
	for i := range m.Data {
		m.Data[i] = rng.Float64()
	}
	return m
}

// At returns element (i, j)
func (m *Matrix) At(i, j int) float64 {
	return m.Data[i*m.Cols+j]
}

// Set stores v at (i, j)
func (m *Matrix) Set(i, j int, v float64) {
	m.Data[i*m.Cols+j] = v
}

// Multiply returns m×other using the plain triple loop
func (m *Matrix) Multiply(other *Matrix) (*Matrix, error) {
	if m.Cols != other.Rows {
		return nil, fmt.Errorf("cannot multiply %dx%d by %dx%d", m.Rows, m.Cols, other.Rows, other.Cols)
	}

	out := Zeros(m.Rows, other.Cols)
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < other.Cols; j++ {
			var sum float64
			for k := 0; k < m.Cols; k++ {
				sum += m.At(i, k) * other.At(k, j)
			}
			out.Set(i, j, sum)
		}
	}
	return out, nil
}

// Checksum is the sum of all elements
func (m *Matrix) Checksum() float64 {
	var sum float64
	for _, v := range m.Data {
		sum += v
	}
	return sum
}

// Equal reports whether both matrices have the same shape and elements
func (m *Matrix) Equal(other *Matrix) bool {
	if m.Rows != other.Rows || m.Cols != other.Cols {
		return false
	}
	for i := range m.Data {
		if m.Data[i] != other.Data[i] {
			return false
		}
	}
	return true
}
