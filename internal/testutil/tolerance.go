package testutil

import (
	"fmt"
	"math"
	"testing"

	"github.com/cwbudde/algo-spectral2d/dsp/grid"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireGridNearlyEqual fails t if got and want differ in shape or if any
// sample pair exceeds eps.
func RequireGridNearlyEqual(t *testing.T, got, want grid.Grid, eps float64) {
	t.Helper()
	if got.Rows != want.Rows || got.Cols != want.Cols {
		t.Fatalf("shape mismatch: got %dx%d, want %dx%d", got.Rows, got.Cols, want.Rows, want.Cols)
	}
	for i := range got.Data {
		diff := math.Abs(got.Data[i] - want.Data[i])
		if diff > eps {
			t.Fatalf("(%d,%d): got %v, want %v (diff %v > eps %v)",
				i/got.Cols, i%got.Cols, got.Data[i], want.Data[i], diff, eps)
		}
	}
}

// RequireGridIdentical fails t unless got and want are bit-identical.
func RequireGridIdentical(t *testing.T, got, want grid.Grid) {
	t.Helper()
	if got.Rows != want.Rows || got.Cols != want.Cols || len(got.Data) != len(want.Data) {
		t.Fatalf("shape mismatch: got %dx%d, want %dx%d", got.Rows, got.Cols, want.Rows, want.Cols)
	}
	for i := range got.Data {
		if math.Float64bits(got.Data[i]) != math.Float64bits(want.Data[i]) {
			t.Fatalf("index %d: got %v, want %v (not bit-identical)", i, got.Data[i], want.Data[i])
		}
	}
}

// RequireGridInRange fails t if any sample lies outside [lo, hi].
func RequireGridInRange(t *testing.T, g grid.Grid, lo, hi float64) {
	t.Helper()
	for i, v := range g.Data {
		if v < lo || v > hi || math.IsNaN(v) {
			t.Fatalf("index %d: value %v outside [%v, %v]", i, v, lo, hi)
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// MaxAbsDiff returns the maximum absolute difference between two slices.
// Returns an error if the slices differ in length.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	maxDiff := 0.0
	for i := range a {
		d := math.Abs(a[i] - b[i])
		if d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff, nil
}
