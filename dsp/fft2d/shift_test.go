package fft2d

import (
	"testing"

	"github.com/cwbudde/algo-spectral2d/dsp/grid"
)

func indexGrid(rows, cols int) grid.CGrid {
	g := grid.NewComplex(rows, cols)
	for i := range g.Data {
		g.Data[i] = complex(float64(i), 0)
	}
	return g
}

func TestShift1D(t *testing.T) {
	tests := []struct {
		n    int
		want []float64
	}{
		{1, []float64{0}},
		{4, []float64{2, 3, 0, 1}},
		{5, []float64{3, 4, 0, 1, 2}},
	}

	for _, tt := range tests {
		got, err := Shifted(indexGrid(1, tt.n))
		if err != nil {
			t.Fatalf("Shifted: %v", err)
		}
		for i, w := range tt.want {
			if real(got.Data[i]) != w {
				t.Fatalf("n=%d: shifted[%d] = %v, want %v", tt.n, i, real(got.Data[i]), w)
			}
		}

		back, err := Unshifted(got)
		if err != nil {
			t.Fatalf("Unshifted: %v", err)
		}
		for i := range back.Data {
			if real(back.Data[i]) != float64(i) {
				t.Fatalf("n=%d: unshift[%d] = %v, want %d", tt.n, i, real(back.Data[i]), i)
			}
		}
	}
}

func TestShiftMovesOriginToCenter(t *testing.T) {
	sizes := []struct{ rows, cols int }{{4, 4}, {5, 7}, {6, 3}, {1, 8}}

	for _, sz := range sizes {
		src := grid.NewComplex(sz.rows, sz.cols)
		src.Set(0, 0, 1)

		dst, err := Shifted(src)
		if err != nil {
			t.Fatalf("Shifted: %v", err)
		}
		if dst.At(sz.rows/2, sz.cols/2) != 1 {
			t.Fatalf("%dx%d: origin not moved to (%d,%d)", sz.rows, sz.cols, sz.rows/2, sz.cols/2)
		}
	}
}

func TestInverseShiftUndoesShift(t *testing.T) {
	for _, sz := range []struct{ rows, cols int }{{3, 3}, {4, 5}, {7, 2}, {8, 8}} {
		src := indexGrid(sz.rows, sz.cols)
		shifted, err := Shifted(src)
		if err != nil {
			t.Fatalf("Shifted: %v", err)
		}
		back, err := Unshifted(shifted)
		if err != nil {
			t.Fatalf("Unshifted: %v", err)
		}
		for i := range src.Data {
			if back.Data[i] != src.Data[i] {
				t.Fatalf("%dx%d: mismatch at %d", sz.rows, sz.cols, i)
			}
		}
	}
}

func TestShiftShapeMismatch(t *testing.T) {
	if err := Shift(grid.NewComplex(2, 2), grid.NewComplex(2, 3)); err == nil {
		t.Fatal("expected error for mismatched shapes")
	}
}
