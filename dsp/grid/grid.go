package grid

import (
	"errors"
	"fmt"
	"math"
)

// ErrShape is returned when a grid's dimensions are empty or disagree with
// its backing slice.
var ErrShape = errors.New("grid: invalid shape")

// ErrShapeMismatch is returned when two grids that must share dimensions
// do not.
var ErrShapeMismatch = errors.New("grid: shape mismatch")

// Grid is a rows x cols grid of real samples stored row-major in Data.
// Sample (r, c) lives at Data[r*Cols+c].
type Grid struct {
	Rows int
	Cols int
	Data []float64
}

// New returns a zero-filled grid. Negative dimensions are treated as 0.
func New(rows, cols int) Grid {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return Grid{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// FromSlice wraps data as a rows x cols grid without copying.
func FromSlice(rows, cols int, data []float64) (Grid, error) {
	g := Grid{Rows: rows, Cols: cols, Data: data}
	if err := g.Validate(); err != nil {
		return Grid{}, err
	}
	return g, nil
}

// FromRows copies a slice of equally long rows into a new grid.
func FromRows(rows [][]float64) (Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return Grid{}, fmt.Errorf("%w: %d rows", ErrShape, len(rows))
	}
	cols := len(rows[0])
	g := New(len(rows), cols)
	for r, row := range rows {
		if len(row) != cols {
			return Grid{}, fmt.Errorf("%w: row %d has %d columns, want %d", ErrShape, r, len(row), cols)
		}
		copy(g.Data[r*cols:], row)
	}
	return g, nil
}

// Validate reports whether g has non-zero dimensions backed by exactly
// Rows*Cols samples.
func (g Grid) Validate() error {
	if g.Rows <= 0 || g.Cols <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrShape, g.Rows, g.Cols)
	}
	if len(g.Data) != g.Rows*g.Cols {
		return fmt.Errorf("%w: %dx%d grid backed by %d samples", ErrShape, g.Rows, g.Cols, len(g.Data))
	}
	return nil
}

// Dims returns rows and cols.
func (g Grid) Dims() (rows, cols int) { return g.Rows, g.Cols }

// Len returns the sample count.
func (g Grid) Len() int { return len(g.Data) }

// At returns sample (r, c).
func (g Grid) At(r, c int) float64 { return g.Data[r*g.Cols+c] }

// Set stores v at (r, c).
func (g Grid) Set(r, c int, v float64) { g.Data[r*g.Cols+c] = v }

// Row returns row r as a subslice of Data.
func (g Grid) Row(r int) []float64 { return g.Data[r*g.Cols : (r+1)*g.Cols] }

// Clone returns a deep copy of g.
func (g Grid) Clone() Grid {
	out := Grid{Rows: g.Rows, Cols: g.Cols, Data: make([]float64, len(g.Data))}
	copy(out.Data, g.Data)
	return out
}

// Fill sets every sample to v.
func (g Grid) Fill(v float64) {
	for i := range g.Data {
		g.Data[i] = v
	}
}

// Clip clamps every sample of g to [lo, hi] in place and returns the
// number of samples it changed. NaN samples are set to lo.
func (g Grid) Clip(lo, hi float64) int {
	changed := 0
	for i, v := range g.Data {
		switch {
		case math.IsNaN(v) || v < lo:
			g.Data[i] = lo
			changed++
		case v > hi:
			g.Data[i] = hi
			changed++
		}
	}
	return changed
}

// Complex returns g as a complex grid with zero imaginary parts.
func (g Grid) Complex() CGrid {
	out := NewComplex(g.Rows, g.Cols)
	for i, v := range g.Data {
		out.Data[i] = complex(v, 0)
	}
	return out
}

// SameShape reports whether a and b have identical dimensions.
func SameShape(a, b Grid) bool {
	return a.Rows == b.Rows && a.Cols == b.Cols
}

// MaxAbsDiff returns the largest absolute sample difference between a and b.
func MaxAbsDiff(a, b Grid) (float64, error) {
	if !SameShape(a, b) || len(a.Data) != len(b.Data) {
		return 0, fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, a.Rows, a.Cols, b.Rows, b.Cols)
	}
	maxDiff := 0.0
	for i := range a.Data {
		if d := math.Abs(a.Data[i] - b.Data[i]); d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff, nil
}
