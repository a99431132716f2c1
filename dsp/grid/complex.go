package grid

import "fmt"

// CGrid is a rows x cols grid of complex coefficients stored row-major.
type CGrid struct {
	Rows int
	Cols int
	Data []complex128
}

// NewComplex returns a zero-filled complex grid. Negative dimensions are
// treated as 0.
func NewComplex(rows, cols int) CGrid {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return CGrid{Rows: rows, Cols: cols, Data: make([]complex128, rows*cols)}
}

// Validate reports whether g has non-zero dimensions backed by exactly
// Rows*Cols coefficients.
func (g CGrid) Validate() error {
	if g.Rows <= 0 || g.Cols <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrShape, g.Rows, g.Cols)
	}
	if len(g.Data) != g.Rows*g.Cols {
		return fmt.Errorf("%w: %dx%d grid backed by %d coefficients", ErrShape, g.Rows, g.Cols, len(g.Data))
	}
	return nil
}

// Dims returns rows and cols.
func (g CGrid) Dims() (rows, cols int) { return g.Rows, g.Cols }

// At returns coefficient (r, c).
func (g CGrid) At(r, c int) complex128 { return g.Data[r*g.Cols+c] }

// Set stores v at (r, c).
func (g CGrid) Set(r, c int, v complex128) { g.Data[r*g.Cols+c] = v }

// Row returns row r as a subslice of Data.
func (g CGrid) Row(r int) []complex128 { return g.Data[r*g.Cols : (r+1)*g.Cols] }

// Clone returns a deep copy of g.
func (g CGrid) Clone() CGrid {
	out := CGrid{Rows: g.Rows, Cols: g.Cols, Data: make([]complex128, len(g.Data))}
	copy(out.Data, g.Data)
	return out
}

// Real returns the real parts of g. Imaginary parts are discarded.
func (g CGrid) Real() Grid {
	out := New(g.Rows, g.Cols)
	for i, v := range g.Data {
		out.Data[i] = real(v)
	}
	return out
}

// MulReal multiplies every coefficient of g by the matching sample of m
// and returns the product as a new grid. g is left unchanged.
func (g CGrid) MulReal(m Grid) (CGrid, error) {
	if g.Rows != m.Rows || g.Cols != m.Cols || len(g.Data) != len(m.Data) {
		return CGrid{}, fmt.Errorf("%w: %dx%d spectrum vs %dx%d mask", ErrShapeMismatch, g.Rows, g.Cols, m.Rows, m.Cols)
	}
	out := NewComplex(g.Rows, g.Cols)
	for i, v := range g.Data {
		w := m.Data[i]
		out.Data[i] = complex(real(v)*w, imag(v)*w)
	}
	return out, nil
}
