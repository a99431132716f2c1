package fft2d

import (
	"fmt"

	"github.com/cwbudde/algo-spectral2d/dsp/grid"
)

// Shift moves the zero-frequency coefficient from (0,0) to
// (rows/2, cols/2) by a periodic quadrant swap. For odd sizes the swap is
// a cyclic rotation, not a plain exchange. dst must not alias src.
func Shift(dst, src grid.CGrid) error {
	return rotate(dst, src, src.Rows/2, src.Cols/2)
}

// InverseShift undoes [Shift], moving (rows/2, cols/2) back to (0,0).
// dst must not alias src.
func InverseShift(dst, src grid.CGrid) error {
	return rotate(dst, src, src.Rows-src.Rows/2, src.Cols-src.Cols/2)
}

// Shifted returns a center-shifted copy of src.
func Shifted(src grid.CGrid) (grid.CGrid, error) {
	dst := grid.NewComplex(src.Rows, src.Cols)
	if err := Shift(dst, src); err != nil {
		return grid.CGrid{}, err
	}
	return dst, nil
}

// Unshifted returns a copy of src with the center shift undone.
func Unshifted(src grid.CGrid) (grid.CGrid, error) {
	dst := grid.NewComplex(src.Rows, src.Cols)
	if err := InverseShift(dst, src); err != nil {
		return grid.CGrid{}, err
	}
	return dst, nil
}

// rotate writes src[r][c] to dst[(r+dr)%rows][(c+dc)%cols].
func rotate(dst, src grid.CGrid, dr, dc int) error {
	if err := src.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSize, err)
	}
	if dst.Rows != src.Rows || dst.Cols != src.Cols || len(dst.Data) != len(src.Data) {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, dst.Rows, dst.Cols, src.Rows, src.Cols)
	}

	rows, cols := src.Rows, src.Cols
	for r := 0; r < rows; r++ {
		tr := (r + dr) % rows
		srcRow := src.Data[r*cols : (r+1)*cols]
		dstRow := dst.Data[tr*cols : (tr+1)*cols]
		// Column rotation as two contiguous copies.
		split := cols - dc%cols
		copy(dstRow[dc%cols:], srcRow[:split])
		copy(dstRow[:dc%cols], srcRow[split:])
	}
	return nil
}
