package fft2d

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-spectral2d/dsp/grid"
)

var (
	// ErrInvalidSize is returned for grids or plans with a non-positive dimension.
	ErrInvalidSize = errors.New("fft2d: invalid size")
	// ErrShapeMismatch is returned when a grid does not match the plan.
	ErrShapeMismatch = errors.New("fft2d: shape mismatch")
)

// lines recycles column scratch buffers across plans.
var lines = grid.NewPool()

// Plan transforms rows x cols complex grids.
//
// A Plan is not safe for concurrent use; the 1D backends keep internal
// work buffers. Create one Plan per goroutine.
type Plan struct {
	rows, cols int
	rowAxis    axis // transforms each row (length cols)
	colAxis    axis // transforms each column (length rows)
}

// NewPlan prepares a 2D transform for rows x cols grids.
func NewPlan(rows, cols int) (*Plan, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, rows, cols)
	}

	rowAxis, err := newAxis(cols)
	if err != nil {
		return nil, err
	}

	colAxis := rowAxis
	if rows != cols {
		colAxis, err = newAxis(rows)
		if err != nil {
			return nil, err
		}
	}

	return &Plan{rows: rows, cols: cols, rowAxis: rowAxis, colAxis: colAxis}, nil
}

// Dims returns the grid dimensions the plan was built for.
func (p *Plan) Dims() (rows, cols int) { return p.rows, p.cols }

// Backends returns the backend names used along rows and along columns.
func (p *Plan) Backends() (rowBackend, colBackend string) {
	return p.rowAxis.name(), p.colAxis.name()
}

// Forward computes the unnormalized 2D DFT of src into dst.
// dst and src may be the same grid.
func (p *Plan) Forward(dst, src grid.CGrid) error {
	return p.transform(dst, src, false)
}

// Inverse computes the inverse 2D DFT of src into dst, scaled by
// 1/(rows*cols). dst and src may be the same grid.
func (p *Plan) Inverse(dst, src grid.CGrid) error {
	return p.transform(dst, src, true)
}

func (p *Plan) transform(dst, src grid.CGrid, inverse bool) error {
	if err := p.check(src); err != nil {
		return err
	}
	if err := p.check(dst); err != nil {
		return err
	}

	if &dst.Data[0] != &src.Data[0] {
		copy(dst.Data, src.Data)
	}

	run := func(a axis, line []complex128) error {
		if inverse {
			return a.inverse(line, line)
		}
		return a.forward(line, line)
	}

	for r := 0; r < p.rows; r++ {
		if err := run(p.rowAxis, dst.Row(r)); err != nil {
			return err
		}
	}

	col := lines.Get(p.rows)
	defer lines.Put(col)

	for c := 0; c < p.cols; c++ {
		for r := 0; r < p.rows; r++ {
			col.Data[r] = dst.Data[r*p.cols+c]
		}
		if err := run(p.colAxis, col.Data); err != nil {
			return err
		}
		for r := 0; r < p.rows; r++ {
			dst.Data[r*p.cols+c] = col.Data[r]
		}
	}

	return nil
}

func (p *Plan) check(g grid.CGrid) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSize, err)
	}
	if g.Rows != p.rows || g.Cols != p.cols {
		return fmt.Errorf("%w: grid %dx%d, plan %dx%d", ErrShapeMismatch, g.Rows, g.Cols, p.rows, p.cols)
	}
	return nil
}

// ForwardReal transforms a real grid and returns its spectrum.
func ForwardReal(g grid.Grid) (grid.CGrid, error) {
	if err := g.Validate(); err != nil {
		return grid.CGrid{}, fmt.Errorf("%w: %w", ErrInvalidSize, err)
	}
	plan, err := NewPlan(g.Rows, g.Cols)
	if err != nil {
		return grid.CGrid{}, err
	}
	spec := g.Complex()
	if err := plan.Forward(spec, spec); err != nil {
		return grid.CGrid{}, err
	}
	return spec, nil
}
